package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"alttext/internal/caption"
	"alttext/internal/domain"
	"alttext/internal/infra"
)

// Status enumerates per-asset generation outcomes.
type Status string

const (
	StatusGenerated         Status = "generated"
	StatusGeneratedFallback Status = "generated_fallback"
	StatusSkipped           Status = "skipped"
	StatusFailed            Status = "failed"
)

// Outcome is the structured result of one GenerateFor invocation. Skips are
// expected conditions, not errors; Err is set only for Failed.
type Outcome struct {
	Status Status
	Reason string
	Alt    string
	Err    error
}

func skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func failed(reason string, err error) Outcome {
	return Outcome{Status: StatusFailed, Reason: reason, Err: err}
}

type imageAcquirer interface {
	Acquire(ctx context.Context, asset *domain.Asset, siteBaseURL string) ([]byte, error)
}

type captionClient interface {
	Caption(ctx context.Context, imageData []byte, mimeType, apiKey, lang string) caption.Result
}

// Generator composes image acquisition, the caption call, the fallback policy
// and the write-back into one generate-for-one-asset operation.
type Generator struct {
	assets   domain.AssetStore
	sites    domain.SiteRegistry
	acquirer imageAcquirer
	captions captionClient
	logger   infra.Logger
}

// New wires a per-asset generator.
func New(assets domain.AssetStore, sites domain.SiteRegistry, acquirer imageAcquirer, captions captionClient, logger infra.Logger) *Generator {
	return &Generator{assets: assets, sites: sites, acquirer: acquirer, captions: captions, logger: logger}
}

// GenerateFor runs the full per-asset procedure: precondition checks, image
// acquisition, caption call, fallback policy, save. Acquisition strictly
// precedes the API call, which strictly precedes the write-back; the asset is
// never written before a caption attempt has been resolved.
//
// Any API-side trouble degrades to deterministic fallback text rather than a
// failure: the asset must always end up with some alt text, trading caption
// quality for availability.
func (g *Generator) GenerateFor(ctx context.Context, asset *domain.Asset, settings *domain.Settings, force bool) Outcome {
	if !asset.IsImage() {
		return skipped("asset is not an image")
	}
	if !force && asset.HasAltText() {
		return skipped("asset already has alt text")
	}
	if !settings.HasAPIKey() {
		return skipped("api key not configured")
	}

	baseURL := g.siteBaseURL(ctx, asset.SiteID)
	imageData, err := g.acquirer.Acquire(ctx, asset, baseURL)
	if err != nil {
		g.logger.Warn().Int64("asset_id", asset.ID).Str("filename", asset.Filename).
			Msg("generator: could not read image data with any strategy")
		return failed("no readable image data", err)
	}

	result := g.captions.Caption(ctx, imageData, asset.MimeType, settings.APIKey, settings.CaptionLanguage())

	status := StatusGenerated
	alt := result.Text
	if !result.OK() {
		status = StatusGeneratedFallback
		alt = FallbackAltText(asset.Filename)
		g.logger.Warn().Int64("asset_id", asset.ID).Str("filename", asset.Filename).
			Str("caption_status", string(result.Status)).Int("http_status", result.HTTPStatus).
			Msg("generator: caption attempt failed, using fallback text")
	}

	asset.Alt = alt
	if err := g.assets.SaveAltText(ctx, asset); err != nil {
		return failed("could not save asset", fmt.Errorf("save asset %d: %w", asset.ID, err))
	}

	g.logger.Info().Int64("asset_id", asset.ID).Str("filename", asset.Filename).
		Str("alt", alt).Msg("generator: alt text saved")
	return Outcome{Status: status, Alt: alt}
}

// siteBaseURL resolves the site's base URL for URL absolutization. A registry
// failure is tolerated: the local-file strategies don't need it.
func (g *Generator) siteBaseURL(ctx context.Context, siteID int64) string {
	site, err := g.sites.GetSite(ctx, siteID)
	if err != nil || site == nil {
		return ""
	}
	return site.BaseURL
}

// FallbackAltText builds the deterministic placeholder used when the remote
// captioning call fails or returns nothing.
func FallbackAltText(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return "Image of " + name
}
