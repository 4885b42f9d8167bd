package optimize

import "github.com/go-bf/bf/compiler/ir"

// eliminateDeadCode is pass 7, run to a fixpoint:
//
//   - a Loop immediately following a node that provably leaves cell 0
//     at zero never runs and is dropped. A Set(0, 0)/BulkSet touching
//     offset 0 with value 0 is one such node; a ScanLeft/ScanRight is
//     another, since either one only stops once the cell it's parked
//     on reads zero; a Loop itself is another, since a loop only ever
//     exits once its control cell reaches zero, so two Loops back to
//     back reduce to one. The start of the program counts as a known
//     zero too, since the tape is zero-initialized: a Loop as the
//     very first node never runs.
//   - a Set whose value is never read before something overwrites the
//     same offset is dead and is dropped.
func eliminateDeadCode(seq []ir.Node) []ir.Node {
	return deadCodeAt(seq, true)
}

func deadCodeAt(seq []ir.Node, atStart bool) []ir.Node {
	seq = eachLoopBody(seq, func(body []ir.Node) []ir.Node {
		return deadCodeAt(body, false)
	})

	for {
		next, changed := deadCodePass(seq, atStart)
		seq = next

		if !changed {
			return seq
		}
	}
}

func deadCodePass(seq []ir.Node, atStart bool) ([]ir.Node, bool) {
	out := make([]ir.Node, 0, len(seq))
	changed := false
	zeroKnown := atStart

	for i := 0; i < len(seq); i++ {
		n := seq[i]

		if s, ok := n.(ir.Set); ok && shadowed(seq[i+1:], s.Offset) {
			changed = true
			continue
		}

		if _, ok := n.(ir.Loop); ok && zeroKnown {
			changed = true
			zeroKnown = establishesZero(n)
			continue
		}

		out = append(out, n)
		zeroKnown = establishesZero(n)
	}

	return out, changed
}

func establishesZero(n ir.Node) bool {
	switch x := n.(type) {
	case ir.Set:
		return x.Offset == 0 && x.Value == 0
	case ir.BulkSet:
		for _, p := range x.Pairs {
			if p.Offset == 0 && p.Value == 0 {
				return true
			}
		}
	case ir.Loop, ir.ScanLeft, ir.ScanRight:
		return true
	}

	return false
}

// shadowed reports whether offset's current value is overwritten
// before it is ever read, scanning forward through a straight-line
// run of ValAdd/Set/BulkAdd/BulkSet/Output nodes. Any other node is
// opaque and stops the scan, keeping the write it couldn't see past.
func shadowed(rest []ir.Node, offset int) bool {
	for _, n := range rest {
		switch x := n.(type) {
		case ir.Output:
			if x.Offset == offset {
				return false
			}
		case ir.ValAdd:
			if x.Offset == offset {
				return false
			}
		case ir.BulkAdd:
			for _, p := range x.Pairs {
				if p.Offset == offset {
					return false
				}
			}
		case ir.Set:
			if x.Offset == offset {
				return true
			}
		case ir.BulkSet:
			for _, p := range x.Pairs {
				if p.Offset == offset {
					return true
				}
			}
		default:
			return false
		}
	}

	return false
}
