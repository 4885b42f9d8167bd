package optimize

import "github.com/go-bf/bf/compiler/ir"

// recognizeScanLoops is pass 4: a Loop whose body is exactly one
// PtrAdd(s), s != 0, advances the pointer by s per iteration until
// the cell it lands on is zero. It is replaced by ScanLeft(-s) when
// s < 0 or ScanRight(s) when s > 0.
func recognizeScanLoops(seq []ir.Node) []ir.Node {
	seq = eachLoopBody(seq, recognizeScanLoops)

	out := make([]ir.Node, 0, len(seq))

	for _, n := range seq {
		l, ok := n.(ir.Loop)
		if !ok {
			out = append(out, n)
			continue
		}

		if len(l.Body) == 1 {
			if p, is := l.Body[0].(ir.PtrAdd); is && p.Delta != 0 {
				if p.Delta < 0 {
					out = append(out, ir.ScanLeft{Stride: -p.Delta})
				} else {
					out = append(out, ir.ScanRight{Stride: p.Delta})
				}

				continue
			}
		}

		out = append(out, l)
	}

	return out
}
