package domain

// AssetFilter selects which image assets a batch run targets.
type AssetFilter string

const (
	FilterAllAssets      AssetFilter = "all"
	FilterMissingAltOnly AssetFilter = "missing_alt"
)

// SiteBreakdown summarizes one site's image assets at the start of a batch run.
type SiteBreakdown struct {
	Total      int
	WithAlt    int
	WithoutAlt int
}

// BatchRunResult aggregates the counts produced by one batch run. It is built
// incrementally while the run executes and is immutable once returned.
type BatchRunResult struct {
	TotalCandidates int
	ProcessedCount  int
	QueuedCount     int
	PerSite         map[int64]SiteBreakdown
}

// NewBatchRunResult returns an empty result ready for accumulation.
func NewBatchRunResult() *BatchRunResult {
	return &BatchRunResult{PerSite: make(map[int64]SiteBreakdown)}
}
