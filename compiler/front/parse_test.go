package front

import (
	"context"
	"errors"
	"testing"

	"github.com/go-bf/bf/compiler/ir"
)

func TestParseFlat(t *testing.T) {
	p, err := Parse(context.Background(), []byte("+-><.,"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []ir.Node{
		ir.ValAdd{Offset: 0, Delta: 1},
		ir.ValAdd{Offset: 0, Delta: -1},
		ir.PtrAdd{Delta: 1},
		ir.PtrAdd{Delta: -1},
		ir.Output{Offset: 0},
		ir.Input{Offset: 0},
	}

	if len(p.Body) != len(want) {
		t.Fatalf("got %d nodes, want %d: %+v", len(p.Body), len(want), p.Body)
	}

	for i, n := range p.Body {
		if n != want[i] {
			t.Errorf("node %d: got %+v, want %+v", i, n, want[i])
		}
	}
}

func TestParseIgnoresNonCommandBytes(t *testing.T) {
	p, err := Parse(context.Background(), []byte("+ this is a comment\n-"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(p.Body) != 2 {
		t.Fatalf("got %d nodes, want 2: %+v", len(p.Body), p.Body)
	}
}

func TestParseLoop(t *testing.T) {
	p, err := Parse(context.Background(), []byte("[-]"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(p.Body) != 1 {
		t.Fatalf("got %d nodes, want 1: %+v", len(p.Body), p.Body)
	}

	l, ok := p.Body[0].(ir.Loop)
	if !ok {
		t.Fatalf("got %T, want ir.Loop", p.Body[0])
	}

	if len(l.Body) != 1 || l.Body[0] != (ir.ValAdd{Offset: 0, Delta: -1}) {
		t.Errorf("loop body = %+v", l.Body)
	}
}

func TestParseNestedLoops(t *testing.T) {
	p, err := Parse(context.Background(), []byte("[[]]"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	outer, ok := p.Body[0].(ir.Loop)
	if !ok || len(outer.Body) != 1 {
		t.Fatalf("outer loop = %+v", p.Body[0])
	}

	if _, ok := outer.Body[0].(ir.Loop); !ok {
		t.Errorf("inner node = %+v, want ir.Loop", outer.Body[0])
	}
}

func TestParseUnmatchedClose(t *testing.T) {
	_, err := Parse(context.Background(), []byte("+]"))

	var bracket UnbalancedBracketsError
	if !errors.As(err, &bracket) {
		t.Fatalf("got err %v, want UnbalancedBracketsError", err)
	}

	if bracket.Offset != 1 {
		t.Errorf("offset = %d, want 1", bracket.Offset)
	}
}

func TestParseUnclosedOpen(t *testing.T) {
	_, err := Parse(context.Background(), []byte("[+"))

	var bracket UnbalancedBracketsError
	if !errors.As(err, &bracket) {
		t.Fatalf("got err %v, want UnbalancedBracketsError", err)
	}

	if bracket.Offset != 0 {
		t.Errorf("offset = %d, want 0", bracket.Offset)
	}
}

func TestAddFileAttributesOffset(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.AddFile(ctx, "a.bf", []byte("++"))
	s.AddFile(ctx, "b.bf", []byte("]"))

	_, err := s.Parse(ctx)
	if err == nil {
		t.Fatal("expected an unbalanced-brackets error")
	}

	if got := err.Error(); !contains(got, "b.bf") {
		t.Errorf("error %q does not name the offending file", got)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}

	return false
}
