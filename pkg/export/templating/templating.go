// Package templating wraps pongo2 behind a small renderer surface for the
// HTML exporters: a cached template set over pluggable loaders, global
// context data, and custom filter registration.
package templating

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

// Renderer is the engine surface exporters program against.
type Renderer interface {
	// RenderTemplate loads a template by name from the configured loaders,
	// renders it with data, and returns the output. When writers are
	// given the output is also copied to each of them.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)

	// RenderString renders an inline template source with data.
	RenderString(source string, data any, out ...io.Writer) (string, error)

	// RegisterFilter installs a template filter under the given name.
	RegisterFilter(name string, fn FilterFunc) error

	// GlobalContext merges data into the context of every render.
	GlobalContext(data map[string]any)
}

// FilterFunc is a template filter: it receives the piped value and the
// filter parameter, and returns the replacement value.
type FilterFunc func(input any, param any) (any, error)

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

// htmlSanitizer returns the shared strip-everything HTML policy applied to
// recognized text before it reaches a rendered page.
func htmlSanitizer() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		sanitizer = bluemonday.StrictPolicy()
	})
	return sanitizer
}

// registerDefaultFilters installs the filters every engine instance expects.
// Filters are process-wide in pongo2, so registration tolerates an earlier
// engine having installed them already.
func registerDefaultFilters() error {
	if !pongo2.FilterExists("sanitize") {
		err := pongo2.RegisterFilter("sanitize", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(htmlSanitizer().Sanitize(in.String())), nil
		})
		if err != nil {
			return fmt.Errorf("templating: register sanitize filter: %w", err)
		}
	}

	if !pongo2.FilterExists("trim") {
		err := pongo2.RegisterFilter("trim", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(strings.TrimSpace(in.String())), nil
		})
		if err != nil {
			return fmt.Errorf("templating: register trim filter: %w", err)
		}
	}

	return nil
}
