package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"alttext/internal/domain"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

type stubDB struct {
	settings      *domain.Settings
	queryRowCalls int
	execCalls     int
	lastExecArgs  []any
}

func (db *stubDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	db.execCalls++
	db.lastExecArgs = args
	return pgconn.CommandTag{}, nil
}

func (db *stubDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	db.queryRowCalls++
	return stubRow{scan: func(dest ...any) error {
		if db.settings == nil {
			return pgx.ErrNoRows
		}
		*dest[0].(*string) = db.settings.APIKey
		*dest[1].(*string) = db.settings.Language
		*dest[2].(*bool) = db.settings.GenerateForNewAssets
		*dest[3].(*time.Time) = db.settings.UpdatedAt
		return nil
	}}
}

func (db *stubDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func TestLoadCachesResult(t *testing.T) {
	db := &stubDB{settings: &domain.Settings{APIKey: "key-123", Language: "de", GenerateForNewAssets: true}}
	store := NewStore(db, time.Minute)

	first, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.APIKey != "key-123" || first.Language != "de" || !first.GenerateForNewAssets {
		t.Errorf("settings = %+v", first)
	}

	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if db.queryRowCalls != 1 {
		t.Errorf("query row calls = %d, want 1 (second load served from cache)", db.queryRowCalls)
	}
}

func TestLoadMissingRow(t *testing.T) {
	store := NewStore(&stubDB{}, time.Minute)

	settings, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.HasAPIKey() {
		t.Error("missing row must yield no API key")
	}
	if settings.Language != domain.DefaultLanguage {
		t.Errorf("language = %q", settings.Language)
	}
}

func TestSaveInvalidatesCache(t *testing.T) {
	db := &stubDB{settings: &domain.Settings{APIKey: "old", Language: "en"}}
	store := NewStore(db, time.Minute)

	if _, err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	db.settings = &domain.Settings{APIKey: "new", Language: "en"}
	if err := store.Save(context.Background(), &domain.Settings{APIKey: " new ", Language: "en-US"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if db.execCalls != 1 {
		t.Errorf("exec calls = %d", db.execCalls)
	}
	if db.lastExecArgs[0] != "new" {
		t.Errorf("api key arg = %v, want trimmed", db.lastExecArgs[0])
	}
	if db.lastExecArgs[1] != "en" {
		t.Errorf("language arg = %v, want normalized en", db.lastExecArgs[1])
	}

	reloaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.APIKey != "new" {
		t.Errorf("reloaded key = %q, cache was not invalidated", reloaded.APIKey)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "en", want: "en"},
		{in: "en-US", want: "en"},
		{in: "de-AT", want: "de"},
		{in: "pt-BR", want: "pt"},
		{in: "", want: "en"},
		{in: "  fr  ", want: "fr"},
		{in: "not a language!", want: "en"},
	}
	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
