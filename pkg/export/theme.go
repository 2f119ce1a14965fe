package export

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the built-in preview theme.
const DefaultThemeName = "clinical"

// StaticThemes is an in-memory theme selector over registered manifests.
type StaticThemes map[string]*theme.Manifest

// Select resolves a theme by name. The variant is carried through as
// requested; variant overrides apply during resolution only when the
// manifest defines them.
func (s StaticThemes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	manifest, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("export: unknown theme %q", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// DefaultThemes returns the built-in preview themes. The clinical theme's
// tokens feed the CSS custom properties the preview template reads; its
// high-contrast variant darkens them for print review.
func DefaultThemes() StaticThemes {
	return StaticThemes{
		DefaultThemeName: {
			Name:    DefaultThemeName,
			Version: "1.0.0",
			Tokens: map[string]string{
				"color-bg":     "#ffffff",
				"color-text":   "#1f2937",
				"color-muted":  "#6b7280",
				"color-accent": "#2563eb",
			},
			Variants: map[string]theme.Variant{
				"high-contrast": {
					Tokens: map[string]string{
						"color-text":   "#000000",
						"color-muted":  "#374151",
						"color-accent": "#1d4ed8",
					},
				},
			},
		},
	}
}

// ResolveTheme selects a theme and derives the renderer configuration the
// HTML preview consumes. Manifest tokens, overlaid with the selected
// variant's, become CSS custom properties named --<token>; asset references
// resolve against the manifest's asset prefix. An empty name resolves to no
// theme.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if name == "" {
		return nil, nil
	}

	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("export: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}

	manifest := selection.Manifest
	tokens := mergeStringMaps(manifest.Tokens, nil)
	partials := mergeStringMaps(manifest.Templates, nil)
	files := mergeStringMaps(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStringMaps(tokens, v.Tokens)
		partials = mergeStringMaps(partials, v.Templates)
		files = mergeStringMaps(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for token, value := range tokens {
		cssVars["--"+token] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

func mergeStringMaps(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// assetResolver maps manifest asset keys to served paths. Unknown keys
// resolve to an empty string.
func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + file
	}
}
