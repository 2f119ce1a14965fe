package export

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/carelayer/scanform/pkg/export/templating"
	"github.com/carelayer/scanform/pkg/template"
)

const previewTemplate = "templates/preview.html"

// HTMLExporter renders the draft into a standalone themed preview page.
// Labels and other recognized text are sanitized before they reach the
// document.
type HTMLExporter struct {
	once   sync.Once
	engine *templating.Engine
	err    error
}

// NewHTMLExporter creates an HTML exporter over the embedded templates.
// Template compilation is deferred to the first export.
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

func (e *HTMLExporter) Name() string { return "html" }

func (e *HTMLExporter) ContentType() string { return "text/html; charset=utf-8" }

func (e *HTMLExporter) Export(ctx context.Context, draft template.Draft, options Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.once.Do(e.init)
	if e.err != nil {
		return nil, fmt.Errorf("export: initialize HTML templates: %w", e.err)
	}

	sections := make([]previewSection, 0, len(draft.Sections))
	for _, section := range draft.Sections {
		sections = append(sections, previewSection{
			Name:   section.Name,
			Fields: draft.SectionFields(section),
		})
	}

	themeCtx := buildThemeContext(options.Theme)
	data := map[string]any{
		"title":        documentTitle(draft, options),
		"sections":     sections,
		"fieldCount":   len(draft.Fields),
		"sectionCount": len(draft.Sections),
		"themeName":    themeCtx.Name,
		"themeVariant": themeCtx.Variant,
		"themeStyle":   themeCtx.Style,
	}

	rendered, err := e.engine.RenderTemplate(previewTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("export: render HTML preview: %w", err)
	}

	return []byte(rendered), nil
}

func (e *HTMLExporter) init() {
	e.engine, e.err = templating.New(
		templating.WithFS(embeddedTemplates),
		templating.WithExtension(".tpl"),
	)
}

// previewSection pairs a section heading with its resolved fields so the
// template never has to chase field ids.
type previewSection struct {
	Name   string
	Fields []template.Field
}

type themeContext struct {
	Name    string
	Variant string
	Style   string
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	return themeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
}

// cssVarsStyle renders theme variables as a :root block in stable key order.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s: %s;\n", k, vars[k])
	}
	b.WriteString("}")
	return b.String()
}
