package optimize

import "github.com/go-bf/bf/compiler/ir"

// optimizeOffsets is pass 5: within each straight-line run, a running
// "pending offset" p starts at 0. Each PtrAdd(d) is folded into p and
// elided. Each ValAdd/Set in the run has its own offset field
// rewritten to offset+p instead of needing its own pointer move.
// Boundary nodes — Loop, Input, Output, Scan*, MulAdd, and a
// Set(0, 0) (the zero-knowledge fact a clear loop or move loop
// leaves behind, which the dead-code pass needs to find at a literal
// offset of 0 immediately before whatever follows it) — must see the
// pointer already moved, so the accumulated p is flushed as a single
// trailing PtrAdd(p) right before them instead of being merged into
// their own offset.
func optimizeOffsets(seq []ir.Node) []ir.Node {
	seq = eachLoopBody(seq, optimizeOffsets)

	out := make([]ir.Node, 0, len(seq))
	p := 0

	flush := func() {
		if p != 0 {
			out = append(out, ir.PtrAdd{Delta: p})
			p = 0
		}
	}

	for _, n := range seq {
		switch x := n.(type) {
		case ir.PtrAdd:
			p += x.Delta
		case ir.ValAdd:
			out = append(out, ir.ValAdd{Offset: x.Offset + p, Delta: x.Delta})
		case ir.Set:
			if isZeroingSet(x) {
				flush()
				out = append(out, x)
			} else {
				out = append(out, ir.Set{Offset: x.Offset + p, Value: x.Value})
			}
		default:
			flush()
			out = append(out, n)
		}
	}

	flush()

	return out
}

func isZeroingSet(s ir.Set) bool {
	return s.Offset == 0 && s.Value == 0
}
