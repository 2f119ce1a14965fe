package export

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available exporters keyed by name.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

// NewRegistry creates an empty exporter registry.
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[string]Exporter),
	}
}

// NewDefaultRegistry creates a registry pre-populated with the built-in
// exporters: json, yaml, openapi, html, and pdf.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(JSONExporter{})
	r.MustRegister(YAMLExporter{})
	r.MustRegister(OpenAPIExporter{})
	r.MustRegister(NewHTMLExporter())
	r.MustRegister(NewPDFExporter())
	return r
}

// Register adds an exporter to the registry. Returns an error when the
// exporter is nil, unnamed, or its name is already taken.
func (r *Registry) Register(exporter Exporter) error {
	if exporter == nil {
		return fmt.Errorf("export: cannot register nil exporter")
	}

	name := exporter.Name()
	if name == "" {
		return fmt.Errorf("export: exporter name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.exporters[name]; exists {
		return fmt.Errorf("export: exporter %q already registered", name)
	}

	r.exporters[name] = exporter
	return nil
}

// MustRegister adds an exporter and panics on failure. Intended for
// package-level wiring where a registration error is a programming bug.
func (r *Registry) MustRegister(exporter Exporter) {
	if err := r.Register(exporter); err != nil {
		panic(err)
	}
}

// Get retrieves an exporter by name.
func (r *Registry) Get(name string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exporter, exists := r.exporters[name]
	if !exists {
		return nil, fmt.Errorf("export: exporter %q not found", name)
	}

	return exporter, nil
}

// MustGet retrieves an exporter by name and panics when missing.
func (r *Registry) MustGet(name string) Exporter {
	exporter, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return exporter
}

// List returns the names of all registered exporters in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Has reports whether an exporter with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.exporters[name]
	return exists
}
