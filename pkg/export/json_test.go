package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carelayer/scanform/pkg/template"
	"github.com/carelayer/scanform/pkg/testsupport"
)

func TestJSONExporterRoundTrip(t *testing.T) {
	out, err := JSONExporter{}.Export(context.Background(), fixtureDraft(), Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if !bytes.HasSuffix(out, []byte("\n")) {
		t.Error("Export() output does not end with a newline")
	}

	var decoded template.Draft
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Export() produced invalid JSON: %v", err)
	}

	if diff := cmp.Diff(fixtureDraft(), decoded); diff != "" {
		t.Errorf("draft changed through the JSON round trip (-want +got):\n%s", diff)
	}
}

func TestJSONExporterUsesPortalFieldNames(t *testing.T) {
	out, err := JSONExporter{}.Export(context.Background(), fixtureDraft(), Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	for _, key := range []string{`"isPhiField"`, `"auditRequired"`, `"validationRules"`, `"customAttributes"`, `"fieldIds"`} {
		if !bytes.Contains(out, []byte(key)) {
			t.Errorf("Export() output missing key %s", key)
		}
	}
}

func TestJSONExporterHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (JSONExporter{}).Export(ctx, fixtureDraft(), Options{}); err == nil {
		t.Error("Export() ignored a canceled context")
	}
}

func TestJSONExporterIdentity(t *testing.T) {
	e := JSONExporter{}
	if e.Name() != "json" {
		t.Errorf("Name() = %q, want %q", e.Name(), "json")
	}
	if e.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", e.ContentType(), "application/json")
	}
}

func TestJSONExporterGolden(t *testing.T) {
	out, err := JSONExporter{}.Export(context.Background(), fixtureDraft(), Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	golden := "testdata/draft.golden.json"
	if testsupport.WriteMaybeGolden(t, golden, out) {
		return
	}

	want := testsupport.MustReadGolden(t, golden)
	if diff := cmp.Diff(string(want), string(out)); diff != "" {
		t.Errorf("Export() output drifted from %s (-want +got):\n%s", golden, diff)
	}
}
