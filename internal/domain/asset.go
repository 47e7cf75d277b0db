package domain

import (
	"strings"
	"time"
)

// AssetKind enumerates asset types known to the host content store.
type AssetKind string

const (
	AssetKindImage AssetKind = "image"
	AssetKindVideo AssetKind = "video"
	AssetKindFile  AssetKind = "file"
)

// Asset is an image record owned by the host content store. This service only
// reads its fields and requests an alt-text save; it never creates or deletes
// assets.
type Asset struct {
	ID                  int64
	SiteID              int64
	Filename            string
	Kind                AssetKind
	Alt                 string
	MimeType            string
	Path                string
	TransformSourcePath string
	URL                 string
	VolumeUID           string
	DateCreated         time.Time
}

// IsImage reports whether the asset is an image and therefore eligible for
// alt-text generation.
func (a *Asset) IsImage() bool {
	return a != nil && a.Kind == AssetKindImage
}

// HasAltText reports whether the asset already carries a usable alt attribute.
// Null columns scan as empty strings, so a whitespace-only value counts as
// missing.
func (a *Asset) HasAltText() bool {
	return a != nil && strings.TrimSpace(a.Alt) != ""
}
