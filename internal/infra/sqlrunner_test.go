package infra

import (
	"strings"
	"testing"

	"alttext/internal/sqlinline"
)

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker(sqlinline.QSelectSettings)
	if err != nil {
		t.Fatalf("extractMarker: %v", err)
	}
	if len(marker) != 36 {
		t.Errorf("marker = %q, want a uuid", marker)
	}
	if strings.Contains(body, "--sql") {
		t.Error("marker line must be stripped from the executable statement")
	}
	if !strings.Contains(strings.ToLower(body), "select") {
		t.Errorf("body = %q", body)
	}
}

func TestExtractMarkerRejectsUntagged(t *testing.T) {
	if _, _, err := extractMarker("select 1"); err == nil {
		t.Error("untagged statement must be rejected")
	}
	if _, _, err := extractMarker("--sql not-a-uuid\nselect 1"); err == nil {
		t.Error("malformed marker must be rejected")
	}
}

func TestAllInlineQueriesTagged(t *testing.T) {
	queries := map[string]string{
		"select asset by id":    sqlinline.QSelectAssetByID,
		"select images by site": sqlinline.QSelectImagesBySite,
		"select images missing": sqlinline.QSelectImagesMissingAlt,
		"count images by site":  sqlinline.QCountImagesBySite,
		"count images missing":  sqlinline.QCountImagesMissingAlt,
		"update asset alt":      sqlinline.QUpdateAssetAlt,
		"select all sites":      sqlinline.QSelectAllSites,
		"select site by id":     sqlinline.QSelectSiteByID,
		"enqueue task":          sqlinline.QEnqueueTask,
		"claim next task":       sqlinline.QClaimNextTask,
		"finish task":           sqlinline.QFinishTask,
		"select settings":       sqlinline.QSelectSettings,
		"upsert settings":       sqlinline.QUpsertSettings,
	}
	seen := make(map[string]string)
	for name, query := range queries {
		marker, _, err := extractMarker(query)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if prev, dup := seen[marker]; dup {
			t.Errorf("%s shares marker %s with %s", name, marker, prev)
		}
		seen[marker] = name
	}
}
