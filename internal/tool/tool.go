package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Params is the parameter block passed to a tool, either at construction
// (the config block) or at invocation time.
type Params map[string]any

// Result is the raw result object returned by a tool invocation.
type Result map[string]any

// Tool is a named, configurable unit of external functionality invoked
// uniformly regardless of concrete backend.
type Tool interface {
	Call(ctx context.Context, params Params) (Result, error)
}

// Factory constructs a ready-to-invoke tool instance from its config block.
// Construction does no I/O and no retries.
type Factory func(cfg Params) (Tool, error)

// ErrUnknownTool is returned when resolving a name that was never registered.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps tool names to factories. Every producer, writer, and
// composer is obtained through this single indirection.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default is the process-wide registry. Tool packages register themselves
// in init.
var Default = NewRegistry()

// Register adds a factory under the given name, replacing any previous one.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Resolve constructs a tool instance for the named factory.
func (r *Registry) Resolve(name string, cfg Params) (Tool, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return f(cfg)
}

// Names returns all registered tool names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy of the params. Tasks copy their parameter
// block so no mutable config is shared across workers.
func (p Params) Clone() Params {
	cp := make(Params, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// String returns the string value for key, or def when absent or not a string.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Int returns the integer value for key, tolerating YAML/JSON numeric types.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Float returns the float value for key, tolerating YAML/JSON numeric types.
func (p Params) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// StringSlice returns the string-slice value for key. Both []string and
// []any-of-strings are accepted, since params cross config decoding.
func (p Params) StringSlice(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}

// StringSlice mirrors Params.StringSlice for result objects.
func (r Result) StringSlice(key string) []string {
	return Params(r).StringSlice(key)
}

// String mirrors Params.String for result objects.
func (r Result) String(key, def string) string {
	return Params(r).String(key, def)
}
