package domain

// Site describes one site in the host's multi-site installation. BaseURL is
// used to absolutize asset URLs that lack a host.
type Site struct {
	ID      int64
	Name    string
	BaseURL string
	Enabled bool
}
