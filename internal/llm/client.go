package llm

import (
	"context"
	"math/rand"
)

// Result is the outcome of a validated generation call. Text must not be
// trusted unless Accepted is true.
type Result struct {
	Text     string
	Accepted bool
}

// Check is an acceptance predicate run against raw generated text before it
// is trusted.
type Check func(text string) bool

// Client wraps a generator with structural validation and bounded
// re-sampling. It keeps no local cache and no history; the only side effect
// of Generate is the underlying backend calls.
type Client struct {
	Gen         Generator
	System      string
	Temperature float64

	// MaxRetries is the number of additional attempts after the first when
	// an acceptance predicate rejects the output.
	MaxRetries int

	// SeedFn produces the fresh sampling seed used on each re-attempt.
	// Nil means a random seed in [1, 100000].
	SeedFn func() int64
}

// NewClient returns a client with the default retry ceiling of 3.
func NewClient(gen Generator) *Client {
	return &Client{Gen: gen, MaxRetries: 3}
}

func (c *Client) seed() int64 {
	if c.SeedFn != nil {
		return c.SeedFn()
	}
	return rand.Int63n(100000) + 1
}

// Generate invokes the backend with the prompt and, when check is non-nil,
// re-invokes with a freshly randomized seed on rejection, up to MaxRetries
// additional attempts. Terminal failure (retries exhausted, or the backend
// call itself erroring) yields Accepted=false and never an error: callers
// branch on Accepted and supply their own fallback.
func (c *Client) Generate(ctx context.Context, prompt string, check Check) Result {
	return c.generate(ctx, prompt, check, 0)
}

// Resample is Generate with a fresh seed applied to the first attempt too.
// Callers layering their own retry loop on top use it so a repeat invocation
// never replays a byte-identical request, even with MaxRetries set to zero.
func (c *Client) Resample(ctx context.Context, prompt string, check Check) Result {
	return c.generate(ctx, prompt, check, c.seed())
}

func (c *Client) generate(ctx context.Context, prompt string, check Check, seed int64) Result {
	attempts := 1
	if check != nil {
		attempts += c.MaxRetries
	}

	req := Request{
		Prompt:      prompt,
		System:      c.System,
		Temperature: c.Temperature,
		Seed:        seed,
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			req.Seed = c.seed()
		}
		text, err := c.Gen.Complete(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}
			}
			continue
		}
		if check == nil || check(text) {
			return Result{Text: text, Accepted: true}
		}
	}
	return Result{}
}
