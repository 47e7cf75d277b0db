package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alttext/internal/domain"
	"alttext/internal/infra"
)

// Acquirer resolves a usable byte payload for an asset image. Strategies run
// in fixed priority order, cheapest first: volume-local file, transform-source
// file, then a best-effort HTTP fetch of the public URL. Nothing is cached:
// every call re-acquires.
type Acquirer struct {
	volumeRoot string
	httpClient *http.Client
	logger     infra.Logger
}

// NewAcquirer constructs an acquirer reading local files under volumeRoot.
func NewAcquirer(volumeRoot string, httpClient *http.Client, logger infra.Logger) *Acquirer {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	return &Acquirer{volumeRoot: volumeRoot, httpClient: httpClient, logger: logger}
}

// Acquire returns the asset's image bytes, or domain.ErrImageUnreadable when
// every strategy fails. That is a recoverable condition for the caller.
func (a *Acquirer) Acquire(ctx context.Context, asset *domain.Asset, siteBaseURL string) ([]byte, error) {
	if data := a.readVolumePath(asset); data != nil {
		return data, nil
	}
	if data := a.readTransformSource(asset); data != nil {
		return data, nil
	}
	if data := a.fetchURL(ctx, asset, siteBaseURL); data != nil {
		return data, nil
	}
	return nil, domain.ErrImageUnreadable
}

func (a *Acquirer) readVolumePath(asset *domain.Asset) []byte {
	if a.volumeRoot == "" || asset.Path == "" {
		return nil
	}
	path := filepath.Join(a.volumeRoot, filepath.FromSlash(asset.Path))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn().Err(err).Str("filename", asset.Filename).Msg("acquire: volume path unreadable")
		}
		return nil
	}
	return data
}

func (a *Acquirer) readTransformSource(asset *domain.Asset) []byte {
	if asset.TransformSourcePath == "" {
		return nil
	}
	data, err := os.ReadFile(asset.TransformSourcePath)
	if err != nil {
		if !os.IsNotExist(err) {
			a.logger.Warn().Err(err).Str("filename", asset.Filename).Msg("acquire: transform source unreadable")
		}
		return nil
	}
	return data
}

// fetchURL is the last resort. Failures here are tolerated, not retried.
func (a *Acquirer) fetchURL(ctx context.Context, asset *domain.Asset, siteBaseURL string) []byte {
	target := resolveURL(asset.URL, siteBaseURL)
	if target == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		a.logger.Warn().Err(err).Str("url", target).Msg("acquire: invalid asset url")
		return nil
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, */*")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn().Err(err).Str("url", target).Msg("acquire: url fetch failed")
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.logger.Warn().Int("status", resp.StatusCode).Str("url", target).Msg("acquire: url fetch non-200")
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Warn().Err(err).Str("url", target).Msg("acquire: url read failed")
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

// resolveURL absolutizes the asset URL against the site base URL when it
// lacks a host.
func resolveURL(assetURL, siteBaseURL string) string {
	assetURL = strings.TrimSpace(assetURL)
	if assetURL == "" {
		return ""
	}
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return ""
	}
	if parsed.Host != "" {
		return assetURL
	}
	base := strings.TrimRight(strings.TrimSpace(siteBaseURL), "/")
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(assetURL, "/") {
		assetURL = "/" + assetURL
	}
	return base + assetURL
}
