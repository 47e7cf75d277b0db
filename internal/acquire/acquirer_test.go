package acquire

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"alttext/internal/domain"
	"alttext/internal/infra"
)

func discardLogger() infra.Logger {
	return zerolog.New(io.Discard)
}

func TestAcquireVolumePathFirst(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "photos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "photos", "sunset.jpg"), []byte("volume-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	fetched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
	}))
	defer srv.Close()

	a := NewAcquirer(root, srv.Client(), discardLogger())
	asset := &domain.Asset{
		Filename: "sunset.jpg",
		Path:     "photos/sunset.jpg",
		URL:      srv.URL + "/sunset.jpg",
	}
	data, err := a.Acquire(context.Background(), asset, "")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if string(data) != "volume-bytes" {
		t.Errorf("data = %q", data)
	}
	if fetched {
		t.Error("volume hit must not fall through to the URL fetch")
	}
}

func TestAcquireTransformSourceFallback(t *testing.T) {
	src := filepath.Join(t.TempDir(), "transform-source.jpg")
	if err := os.WriteFile(src, []byte("transform-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewAcquirer(t.TempDir(), nil, discardLogger())
	asset := &domain.Asset{
		Filename:            "sunset.jpg",
		Path:                "missing/sunset.jpg",
		TransformSourcePath: src,
	}
	data, err := a.Acquire(context.Background(), asset, "")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if string(data) != "transform-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestAcquireURLFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/sunset.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("url-bytes"))
	}))
	defer srv.Close()

	a := NewAcquirer("", srv.Client(), discardLogger())
	asset := &domain.Asset{
		Filename: "sunset.jpg",
		URL:      "/uploads/sunset.jpg",
	}
	data, err := a.Acquire(context.Background(), asset, srv.URL+"/")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if string(data) != "url-bytes" {
		t.Errorf("data = %q", data)
	}
}

func TestAcquireAllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewAcquirer(t.TempDir(), srv.Client(), discardLogger())
	asset := &domain.Asset{
		Filename: "gone.jpg",
		Path:     "gone.jpg",
		URL:      srv.URL + "/gone.jpg",
	}
	_, err := a.Acquire(context.Background(), asset, "")
	if !errors.Is(err, domain.ErrImageUnreadable) {
		t.Errorf("err = %v, want ErrImageUnreadable", err)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		assetURL string
		base     string
		want     string
	}{
		{name: "absolute url kept", assetURL: "https://cdn.example.com/a.jpg", base: "https://site.example.com", want: "https://cdn.example.com/a.jpg"},
		{name: "relative with slash", assetURL: "/uploads/a.jpg", base: "https://site.example.com/", want: "https://site.example.com/uploads/a.jpg"},
		{name: "relative without slash", assetURL: "uploads/a.jpg", base: "https://site.example.com", want: "https://site.example.com/uploads/a.jpg"},
		{name: "relative without base", assetURL: "/uploads/a.jpg", base: "", want: ""},
		{name: "empty url", assetURL: "   ", base: "https://site.example.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveURL(tt.assetURL, tt.base); got != tt.want {
				t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.assetURL, tt.base, got, tt.want)
			}
		})
	}
}
