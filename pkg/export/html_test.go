package export

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/carelayer/scanform/pkg/template"
)

func TestHTMLExporterRendersDraft(t *testing.T) {
	out, err := NewHTMLExporter().Export(context.Background(), fixtureDraft(), Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	html := string(out)
	for _, want := range []string{
		"<title>Patient Intake</title>",
		"3 fields across 3 sections",
		"Demographics",
		"Consent &amp; Authorization",
		"Full Name",
		`title="Required"`,
		"full_name",
		`badge phi`,
		`badge audit`,
		"Enter a valid email",
		"No fields in this section.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered preview missing %q", want)
		}
	}
}

func TestHTMLExporterSanitizesRecognizedText(t *testing.T) {
	draft := fixtureDraft()
	draft.Fields[0].Label = `Name<script>alert(1)</script>`

	out, err := NewHTMLExporter().Export(context.Background(), draft, Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	html := string(out)
	if strings.Contains(html, "<script>") {
		t.Error("rendered preview contains a script tag from a recognized label")
	}
	if strings.Contains(html, "alert(1)") {
		t.Error("rendered preview contains script content from a recognized label")
	}
	if !strings.Contains(html, "Name") {
		t.Error("rendered preview dropped the legitimate part of the label")
	}
}

func TestHTMLExporterAppliesTheme(t *testing.T) {
	options := Options{
		Theme: &theme.RendererConfig{
			Theme:   "clinical",
			Variant: "dark",
			CSSVars: map[string]string{
				"--color-accent": "#0f766e",
				"--color-bg":     "#0b1120",
			},
		},
	}

	out, err := NewHTMLExporter().Export(context.Background(), fixtureDraft(), options)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	html := string(out)
	for _, want := range []string{
		"theme-clinical",
		"variant-dark",
		":root {\n  --color-accent: #0f766e;\n  --color-bg: #0b1120;\n}",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered preview missing %q", want)
		}
	}
}

func TestHTMLExporterEmptyDraft(t *testing.T) {
	out, err := NewHTMLExporter().Export(context.Background(), template.Draft{}, Options{})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	html := string(out)
	if !strings.Contains(html, "<title>Generated Form</title>") {
		t.Error("rendered preview missing the fallback title")
	}
	if !strings.Contains(html, "0 fields across 0 sections") {
		t.Error("rendered preview missing the empty summary line")
	}
}

func TestHTMLExporterIdentity(t *testing.T) {
	e := NewHTMLExporter()
	if e.Name() != "html" {
		t.Errorf("Name() = %q, want %q", e.Name(), "html")
	}
	if e.ContentType() != "text/html; charset=utf-8" {
		t.Errorf("ContentType() = %q, want %q", e.ContentType(), "text/html; charset=utf-8")
	}
}
