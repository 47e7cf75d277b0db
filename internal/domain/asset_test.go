package domain

import "testing"

func TestHasAltText(t *testing.T) {
	tests := []struct {
		name string
		alt  string
		want bool
	}{
		{name: "empty string", alt: "", want: false},
		{name: "whitespace only", alt: "   \t\n", want: false},
		{name: "plain text", alt: "A sunset over the ocean", want: true},
		{name: "padded text", alt: "  beach  ", want: true},
		{name: "single char", alt: "x", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := &Asset{Kind: AssetKindImage, Alt: tt.alt}
			if got := asset.HasAltText(); got != tt.want {
				t.Errorf("HasAltText(%q) = %v, want %v", tt.alt, got, tt.want)
			}
		})
	}

	var nilAsset *Asset
	if nilAsset.HasAltText() {
		t.Error("nil asset should not report alt text")
	}
}

func TestIsImage(t *testing.T) {
	if !(&Asset{Kind: AssetKindImage}).IsImage() {
		t.Error("image kind should report IsImage")
	}
	if (&Asset{Kind: AssetKindVideo}).IsImage() {
		t.Error("video kind should not report IsImage")
	}
	if (&Asset{}).IsImage() {
		t.Error("zero kind should not report IsImage")
	}
}

func TestSettingsCaptionLanguage(t *testing.T) {
	if got := (&Settings{}).CaptionLanguage(); got != "en" {
		t.Errorf("empty language = %q, want en", got)
	}
	if got := (&Settings{Language: "de"}).CaptionLanguage(); got != "de" {
		t.Errorf("configured language = %q, want de", got)
	}
	if got := (&Settings{Language: "   "}).CaptionLanguage(); got != "en" {
		t.Errorf("blank language = %q, want en", got)
	}
}
