package optimize

import "github.com/go-bf/bf/compiler/ir"

// recognizeClearLoops is pass 2: a Loop whose body is exactly one
// ValAdd(0, +1) or ValAdd(0, -1) zeroes the current cell and is
// replaced by Set(0, 0). Inner loops are rewritten before outer ones
// are inspected, so a clear loop nested inside another loop is
// recognized first.
func recognizeClearLoops(seq []ir.Node) []ir.Node {
	seq = eachLoopBody(seq, recognizeClearLoops)

	out := make([]ir.Node, 0, len(seq))

	for _, n := range seq {
		l, ok := n.(ir.Loop)
		if !ok {
			out = append(out, n)
			continue
		}

		if isClearLoopBody(l.Body) {
			out = append(out, ir.Set{Offset: 0, Value: 0})
			continue
		}

		out = append(out, l)
	}

	return out
}

func isClearLoopBody(body []ir.Node) bool {
	if len(body) != 1 {
		return false
	}

	v, ok := body[0].(ir.ValAdd)

	return ok && v.Offset == 0 && (v.Delta == 1 || v.Delta == -1)
}
