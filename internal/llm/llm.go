package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownProvider is returned when resolving a provider name that was
// never registered.
var ErrUnknownProvider = errors.New("unknown llm provider")

// Request is a single text-generation call.
type Request struct {
	Prompt      string
	System      string
	Temperature float64
	Seed        int64 // 0 means backend default
	MaxTokens   int
}

// Generator is a text-generation backend. Complete blocks until the backend
// returns the full response or the context is done.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ProviderFactory constructs a generator from a provider config block.
type ProviderFactory func(cfg map[string]any) (Generator, error)

var providers = make(map[string]ProviderFactory)

// Register adds a provider factory under the given name.
func Register(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New constructs a generator for the named provider.
func New(name string, cfg map[string]any) (Generator, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return factory(cfg)
}
