package domain

import (
	"strings"
	"time"
)

// DefaultLanguage is used when no caption language has been configured.
const DefaultLanguage = "en"

// Settings is the service configuration record. An empty API key disables
// generation entirely; that is an expected steady state before setup, not an
// error.
type Settings struct {
	APIKey               string
	Language             string
	GenerateForNewAssets bool
	UpdatedAt            time.Time
}

// HasAPIKey reports whether a usable API key is configured.
func (s *Settings) HasAPIKey() bool {
	return s != nil && strings.TrimSpace(s.APIKey) != ""
}

// CaptionLanguage returns the configured language, falling back to the default.
func (s *Settings) CaptionLanguage() string {
	if s == nil {
		return DefaultLanguage
	}
	if lang := strings.TrimSpace(s.Language); lang != "" {
		return lang
	}
	return DefaultLanguage
}
