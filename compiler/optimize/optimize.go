// Package optimize runs the fixed, ordered pipeline of peephole and
// structural passes over an ir.Program. Every pass is a pure
// tree-to-tree function; no pass can fail, since its input is always
// a well-formed tree and its rewrites are total. The pipeline is run
// exactly once, in the order below — the ordering is load-bearing
// (see spec §4.2): clear/move/scan recognition must precede offset
// optimization, and dead-code elimination runs last because it
// benefits from the zero-cell knowledge earlier passes produce.
package optimize

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/go-bf/bf/compiler/ir"
)

// Run applies the seven-pass pipeline to p and returns the optimized
// program. p itself is left untouched; every pass produces a new
// tree.
func Run(ctx context.Context, p *ir.Program) *ir.Program {
	tr := tlog.SpanFromContext(ctx)

	body := p.Body

	passes := []struct {
		name string
		run  func([]ir.Node) []ir.Node
	}{
		{"run-length folding", foldRuns},
		{"clear-loop recognition", recognizeClearLoops},
		{"move/multiply-loop recognition", recognizeMoveLoops},
		{"scan-loop recognition", recognizeScanLoops},
		{"offset optimization", optimizeOffsets},
		{"parallel assignment", bulkAssign},
		{"dead code elimination", eliminateDeadCode},
	}

	for _, pass := range passes {
		before := ir.NumNodes(body)
		body = pass.run(body)
		after := ir.NumNodes(body)

		tr.Printw("optimizer pass", "pass", pass.name, "before", before, "after", after)
	}

	return &ir.Program{Body: body}
}

// eachLoopBody rewrites every Loop in seq by running f over its Body,
// bottom-up: nested loops are rewritten before the sequence
// containing them is otherwise inspected. This is the shared shape
// every pass in this package uses to descend into Loop.Body.
func eachLoopBody(seq []ir.Node, f func([]ir.Node) []ir.Node) []ir.Node {
	out := make([]ir.Node, len(seq))

	for i, n := range seq {
		if l, ok := n.(ir.Loop); ok {
			n = ir.Loop{Body: f(l.Body)}
		}

		out[i] = n
	}

	return out
}

// foldRuns is pass 1: Run-Length Folding. It merges adjacent nodes of
// the same kind whose combined effect is expressible as a single
// node.
func foldRuns(seq []ir.Node) []ir.Node {
	seq = eachLoopBody(seq, foldRuns)

	out := make([]ir.Node, 0, len(seq))

	for _, n := range seq {
		if len(out) == 0 {
			out = append(out, n)
			continue
		}

		prev := out[len(out)-1]

		merged, drop, ok := foldPair(prev, n)
		switch {
		case !ok:
			out = append(out, n)
		case drop:
			out = out[:len(out)-1]
		default:
			out[len(out)-1] = merged
		}
	}

	return out
}

// foldPair applies the four run-length folding rules to one adjacent
// pair. ok reports whether a rule applied; drop reports that the
// pair collapses to nothing (prev is removed and n is not appended).
func foldPair(prev, n ir.Node) (merged ir.Node, drop, ok bool) {
	switch p := prev.(type) {
	case ir.PtrAdd:
		if c, is := n.(ir.PtrAdd); is {
			sum := p.Delta + c.Delta
			if sum == 0 {
				return nil, true, true
			}

			return ir.PtrAdd{Delta: sum}, false, true
		}
	case ir.ValAdd:
		switch c := n.(type) {
		case ir.ValAdd:
			if c.Offset != p.Offset {
				return nil, false, false
			}

			sum := mod256(p.Delta + c.Delta)
			if sum == 0 {
				return nil, true, true
			}

			return ir.ValAdd{Offset: p.Offset, Delta: sum}, false, true
		case ir.Set:
			if c.Offset != p.Offset {
				return nil, false, false
			}

			return c, false, true
		}
	case ir.Set:
		if c, is := n.(ir.ValAdd); is && c.Offset == p.Offset {
			return ir.Set{Offset: p.Offset, Value: mod256(p.Value + c.Delta)}, false, true
		}
	}

	return nil, false, false
}

func mod256(v int) int {
	v %= 256
	if v < 0 {
		v += 256
	}

	return v
}
