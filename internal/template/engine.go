// Package template renders prompt templates against a flat field map.
// The syntax is a small handlebars subset: {{FIELD}} substitutions and
// non-nested {{#if FIELD}}...{{/if}} blocks keyed by field truthiness.
package template

import (
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

//go:embed templates/*.txt
var embedded embed.FS

var (
	conditionalRe = regexp.MustCompile(`(?s)\{\{#if ([A-Za-z0-9_]+)\}\}(.*?)\{\{/if\}\}`)
	tokenRe       = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
	newlineRe     = regexp.MustCompile(`\n{3,}`)
)

// Engine loads named templates from a filesystem and caches them. The cache
// has no automatic invalidation; ClearCache exists for hot-reload scenarios.
type Engine struct {
	fsys   fs.FS
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewEngine returns an engine serving the embedded template set.
func NewEngine(logger *zap.Logger) *Engine {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// embed layout is fixed at compile time
		panic(err)
	}
	return NewEngineFS(sub, logger)
}

// NewEngineFS returns an engine reading templates from fsys, e.g. an
// os.DirFS for an on-disk override directory.
func NewEngineFS(fsys fs.FS, logger *zap.Logger) *Engine {
	return &Engine{
		fsys:   fsys,
		logger: logger,
		cache:  make(map[string]string),
	}
}

// Render loads the named template and renders it against ctx.
// A missing template is a hard error; template names come from the registry,
// never from user input.
func (e *Engine) Render(name string, ctx map[string]string) (string, error) {
	tmpl, err := e.load(name)
	if err != nil {
		return "", err
	}
	return render(tmpl, ctx), nil
}

// ClearCache drops every cached template so the next Render re-reads it.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]string)
	e.logger.Info("template cache cleared")
}

func (e *Engine) load(name string) (string, error) {
	e.mu.RLock()
	cached, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	raw, err := fs.ReadFile(e.fsys, name+".txt")
	if err != nil {
		return "", fmt.Errorf("template %q not found: %w", name, err)
	}

	e.mu.Lock()
	e.cache[name] = string(raw)
	e.mu.Unlock()

	e.logger.Debug("template loaded", zap.String("template", name))
	return string(raw), nil
}

func render(tmpl string, ctx map[string]string) string {
	out := tmpl

	// Conditional blocks first. Single non-nested pass, re-scanned until no
	// block remains so multiple occurrences all resolve.
	for conditionalRe.MatchString(out) {
		out = conditionalRe.ReplaceAllStringFunc(out, func(block string) string {
			m := conditionalRe.FindStringSubmatch(block)
			if truthy(ctx, m[1]) {
				return m[2]
			}
			return ""
		})
	}

	// Substitute known fields; unknown tokens stay verbatim.
	out = tokenRe.ReplaceAllStringFunc(out, func(token string) string {
		key := tokenRe.FindStringSubmatch(token)[1]
		if value, ok := ctx[key]; ok {
			return value
		}
		return token
	})

	out = newlineRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func truthy(ctx map[string]string, field string) bool {
	value, ok := ctx[field]
	return ok && value != ""
}
