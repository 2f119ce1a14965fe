package templating

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"
)

type config struct {
	fsys       fs.FS
	baseDir    string
	extension  string
	globalData map[string]any
}

// Option configures the engine.
type Option func(*config)

// WithFS loads templates from a filesystem, typically an embedded bundle.
func WithFS(fsys fs.FS) Option {
	return func(c *config) {
		c.fsys = fsys
	}
}

// WithBaseDir loads templates from a directory on disk. When combined with
// WithFS the directory is consulted first, letting deployments override the
// embedded defaults.
func WithBaseDir(dir string) Option {
	return func(c *config) {
		c.baseDir = dir
	}
}

// WithExtension sets the file extension appended to template names that do
// not already carry it. Defaults to ".tpl".
func WithExtension(ext string) Option {
	return func(c *config) {
		c.extension = ext
	}
}

// WithGlobalData seeds context data merged into every render.
func WithGlobalData(data map[string]any) Option {
	return func(c *config) {
		if c.globalData == nil {
			c.globalData = make(map[string]any, len(data))
		}
		for k, v := range data {
			c.globalData[k] = v
		}
	}
}

// WithEngineOptions accepts options destined for the go-template engine.
// The pongo2 engine does not consume them; the option exists so call sites
// shared with that engine keep compiling.
func WithEngineOptions(_ ...gotemplate.Option) Option {
	return func(*config) {}
}

// Engine renders pongo2 templates with a compiled-template cache.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	cache     map[string]*pongo2.Template
	extension string
	global    map[string]any
}

// New builds an engine from the given options.
func New(opts ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range opts {
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("templating: template directory %q: %w", cfg.baseDir, err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.fsys != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.fsys))
	}
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.MustNewLocalFileSystemLoader("."))
	}

	if err := registerDefaultFilters(); err != nil {
		return nil, err
	}

	global := make(map[string]any, len(cfg.globalData))
	for k, v := range cfg.globalData {
		global[k] = v
	}

	return &Engine{
		set:       pongo2.NewSet("scanform", loaders...),
		cache:     make(map[string]*pongo2.Template),
		extension: cfg.extension,
		global:    global,
	}, nil
}

func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.template(e.withExtension(name))
	if err != nil {
		return "", fmt.Errorf("templating: load template %q: %w", name, err)
	}
	return e.execute(tmpl, data, out...)
}

func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("templating: parse inline template: %w", err)
	}
	return e.execute(tmpl, data, out...)
}

func (e *Engine) RegisterFilter(name string, fn FilterFunc) error {
	if pongo2.FilterExists(name) {
		return fmt.Errorf("templating: filter %q already registered", name)
	}

	err := pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		result, err := fn(in.Interface(), param.Interface())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
	if err != nil {
		return fmt.Errorf("templating: register filter %q: %w", name, err)
	}
	return nil
}

func (e *Engine) GlobalContext(data map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range data {
		e.global[k] = v
	}
}

// template returns the compiled template for name, compiling and caching it
// on first use.
func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, err
	}

	e.cache[name] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out ...io.Writer) (string, error) {
	ctx := pongo2.Context{}

	e.mu.RLock()
	for k, v := range e.global {
		ctx[k] = v
	}
	e.mu.RUnlock()

	local, err := toContext(data)
	if err != nil {
		return "", err
	}
	ctx.Update(local)

	rendered, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("templating: execute template: %w", err)
	}

	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("templating: write rendered output: %w", err)
		}
	}

	return rendered, nil
}

func (e *Engine) withExtension(name string) string {
	if e.extension == "" || strings.HasSuffix(name, e.extension) {
		return name
	}
	return name + e.extension
}

// toContext converts arbitrary data into a pongo2 context. Maps pass
// through; structs go through a JSON round trip so their exported fields
// become keys.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("templating: encode context data: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("templating: context data must resolve to an object: %w", err)
	}

	return pongo2.Context(m), nil
}
