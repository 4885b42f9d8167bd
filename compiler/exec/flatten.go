// Package exec flattens an optimized ir.Program into a linear
// instruction list with jump targets resolved ahead of time, then
// runs it directly against a tape. No further decoding happens once
// Flatten returns; Run is a straight dispatch loop over op.Kind.
package exec

import "github.com/go-bf/bf/compiler/ir"

type Kind int

const (
	KindPtrAdd Kind = iota
	KindValAdd
	KindSet
	KindMulAdd
	KindBulkAdd
	KindBulkSet
	KindScanLeft
	KindScanRight
	KindInput
	KindOutput
	KindLoopStart
	KindLoopEnd
)

// Op is one flattened instruction. Which fields are meaningful
// depends on Kind; Jump is set only on KindLoopStart (index of the
// matching LoopEnd's successor, taken when the current cell is zero)
// and KindLoopEnd (index of the matching LoopStart, taken when it is
// not).
type Op struct {
	Kind   Kind
	Offset int
	Delta  int
	Value  int
	Factor int
	Stride int
	Adds   []ir.OffsetDelta
	Sets   []ir.OffsetValue
	Jump   int
}

// Program is a flattened, directly executable ir.Program.
type Program struct {
	Ops []Op
}

// Flatten lowers p's tree into a flat op list, replacing Loop nesting
// with a matched pair of LoopStart/LoopEnd ops: LoopStart's Jump points
// just past its LoopEnd, and LoopEnd's Jump points back at its
// LoopStart.
func Flatten(p *ir.Program) *Program {
	var ops []Op

	ops = flattenSeq(ops, p.Body)

	return &Program{Ops: ops}
}

func flattenSeq(ops []Op, seq []ir.Node) []Op {
	for _, n := range seq {
		ops = flattenNode(ops, n)
	}

	return ops
}

func flattenNode(ops []Op, n ir.Node) []Op {
	switch x := n.(type) {
	case ir.PtrAdd:
		return append(ops, Op{Kind: KindPtrAdd, Delta: x.Delta})
	case ir.ValAdd:
		return append(ops, Op{Kind: KindValAdd, Offset: x.Offset, Delta: x.Delta})
	case ir.Set:
		return append(ops, Op{Kind: KindSet, Offset: x.Offset, Value: x.Value})
	case ir.MulAdd:
		return append(ops, Op{Kind: KindMulAdd, Offset: x.Offset, Factor: x.Factor})
	case ir.BulkAdd:
		return append(ops, Op{Kind: KindBulkAdd, Adds: x.Pairs})
	case ir.BulkSet:
		return append(ops, Op{Kind: KindBulkSet, Sets: x.Pairs})
	case ir.ScanLeft:
		return append(ops, Op{Kind: KindScanLeft, Stride: x.Stride})
	case ir.ScanRight:
		return append(ops, Op{Kind: KindScanRight, Stride: x.Stride})
	case ir.Input:
		return append(ops, Op{Kind: KindInput, Offset: x.Offset})
	case ir.Output:
		return append(ops, Op{Kind: KindOutput, Offset: x.Offset})
	case ir.Loop:
		start := len(ops)
		ops = append(ops, Op{Kind: KindLoopStart})

		ops = flattenSeq(ops, x.Body)

		end := len(ops)
		ops = append(ops, Op{Kind: KindLoopEnd, Jump: start})
		ops[start].Jump = end + 1

		return ops
	default:
		panic(n)
	}
}
