package optimize

import (
	"sort"

	"github.com/go-bf/bf/compiler/ir"
)

// recognizeMoveLoops is pass 3: a Loop is a multiply loop iff its
// body (after pass 1) contains only ValAdd and PtrAdd nodes, its net
// pointer motion is zero, and the net ValAdd at offset 0 is exactly
// -1 mod 256. Such a loop is replaced by a MulAdd per non-zero
// offset touched, ascending by offset for determinism, followed by
// Set(0, 0). Loops whose control cell decrements by anything other
// than 1 per iteration are left untouched — they still terminate,
// but with a different multiplication factor than this rule assumes.
func recognizeMoveLoops(seq []ir.Node) []ir.Node {
	seq = eachLoopBody(seq, recognizeMoveLoops)

	out := make([]ir.Node, 0, len(seq))

	for _, n := range seq {
		l, ok := n.(ir.Loop)
		if !ok {
			out = append(out, n)
			continue
		}

		muls, isMove := moveLoopMuls(l.Body)
		if !isMove {
			out = append(out, l)
			continue
		}

		out = append(out, muls...)
		out = append(out, ir.Set{Offset: 0, Value: 0})
	}

	return out
}

// moveLoopMuls reports the MulAdd sequence a multiply loop body
// reduces to, and whether body actually qualifies as one.
func moveLoopMuls(body []ir.Node) ([]ir.Node, bool) {
	ptr := 0
	deltas := map[int]int{}

	for _, n := range body {
		switch x := n.(type) {
		case ir.PtrAdd:
			ptr += x.Delta
		case ir.ValAdd:
			deltas[ptr+x.Offset] += x.Delta
		default:
			return nil, false
		}
	}

	if ptr != 0 {
		return nil, false
	}

	if mod256(deltas[0]) != 255 {
		return nil, false
	}

	offsets := make([]int, 0, len(deltas))

	for off := range deltas {
		if off != 0 {
			offsets = append(offsets, off)
		}
	}

	sort.Ints(offsets)

	muls := make([]ir.Node, 0, len(offsets))

	for _, off := range offsets {
		muls = append(muls, ir.MulAdd{Offset: off, Factor: mod256(deltas[off])})
	}

	return muls, true
}
