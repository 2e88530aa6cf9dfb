package tool

import (
	"context"
	"errors"
	"testing"
)

type echoTool struct {
	cfg Params
}

func (e *echoTool) Call(ctx context.Context, params Params) (Result, error) {
	return Result{"cfg": e.cfg, "params": params}, nil
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", func(cfg Params) (Tool, error) {
		return &echoTool{cfg: cfg}, nil
	})

	tl, err := r.Resolve("echo", Params{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}
	res, err := tl.Call(context.Background(), Params{"x": 1})
	if err != nil {
		t.Fatal(err)
	}
	if res["cfg"].(Params)["k"] != "v" {
		t.Fatalf("res = %v", res)
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("nope", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register("b", nil)
	r.Register("a", nil)
	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("names = %v", names)
	}
}

func TestParams_Clone(t *testing.T) {
	p := Params{"a": 1}
	cp := p.Clone()
	cp["a"] = 2
	cp["b"] = 3
	if p["a"] != 1 {
		t.Fatalf("original mutated: %v", p)
	}
	if _, ok := p["b"]; ok {
		t.Fatalf("original grew: %v", p)
	}
}

func TestParams_Accessors(t *testing.T) {
	p := Params{
		"s":     "hello",
		"empty": "",
		"i":     7,
		"i64":   int64(8),
		"f":     2.5,
		"fi":    float64(9),
	}
	if p.String("s", "d") != "hello" || p.String("empty", "d") != "d" || p.String("missing", "d") != "d" {
		t.Fatal("String accessor")
	}
	if p.Int("i", 0) != 7 || p.Int("i64", 0) != 8 || p.Int("fi", 0) != 9 || p.Int("missing", 4) != 4 {
		t.Fatal("Int accessor")
	}
	if p.Float("f", 0) != 2.5 || p.Float("i", 0) != 7 || p.Float("missing", 1.5) != 1.5 {
		t.Fatal("Float accessor")
	}
}

func TestParams_StringSlice(t *testing.T) {
	p := Params{
		"strings": []string{"a", "b"},
		"anys":    []any{"c", "d"},
		"mixed":   []any{"e", 1},
		"scalar":  "f",
	}
	if got := p.StringSlice("strings"); len(got) != 2 || got[1] != "b" {
		t.Fatalf("strings = %v", got)
	}
	if got := p.StringSlice("anys"); len(got) != 2 || got[0] != "c" {
		t.Fatalf("anys = %v", got)
	}
	if got := p.StringSlice("mixed"); got != nil {
		t.Fatalf("mixed = %v", got)
	}
	if got := p.StringSlice("scalar"); got != nil {
		t.Fatalf("scalar = %v", got)
	}
	if got := p.StringSlice("missing"); got != nil {
		t.Fatalf("missing = %v", got)
	}
}
