// Package format renders an ir.Program back into readable text, one
// node per line with loop bodies indented. It backs the --dump-ir
// flag on both command-line front ends.
package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/go-bf/bf/compiler/ir"
)

func Format(ctx context.Context, b []byte, p *ir.Program) ([]byte, error) {
	return formatSeq(ctx, b, p.Body, 0)
}

func formatSeq(ctx context.Context, b []byte, seq []ir.Node, d int) (_ []byte, err error) {
	for _, n := range seq {
		b, err = formatNode(ctx, b, n, d)
		if err != nil {
			return nil, errors.Wrap(err, "%T", n)
		}
	}

	return b, nil
}

func formatNode(ctx context.Context, b []byte, n ir.Node, d int) (_ []byte, err error) {
	switch x := n.(type) {
	case ir.PtrAdd:
		b = app(b, d, "PtrAdd(%+d)\n", x.Delta)
	case ir.ValAdd:
		b = app(b, d, "ValAdd(off=%d, %+d)\n", x.Offset, x.Delta)
	case ir.Set:
		b = app(b, d, "Set(off=%d, %d)\n", x.Offset, x.Value)
	case ir.MulAdd:
		b = app(b, d, "MulAdd(off=%d, *%d)\n", x.Offset, x.Factor)
	case ir.BulkAdd:
		b = app(b, d, "BulkAdd")
		b = formatPairs(b, x.Pairs)
	case ir.BulkSet:
		b = app(b, d, "BulkSet")
		b = formatValuePairs(b, x.Pairs)
	case ir.ScanLeft:
		b = app(b, d, "ScanLeft(stride=%d)\n", x.Stride)
	case ir.ScanRight:
		b = app(b, d, "ScanRight(stride=%d)\n", x.Stride)
	case ir.Input:
		b = app(b, d, "Input(off=%d)\n", x.Offset)
	case ir.Output:
		b = app(b, d, "Output(off=%d)\n", x.Offset)
	case ir.Loop:
		b = app(b, d, "Loop {\n")

		b, err = formatSeq(ctx, b, x.Body, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "body")
		}

		b = app(b, d, "}\n")
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

func formatPairs(b []byte, pairs []ir.OffsetDelta) []byte {
	b = append(b, '{')

	for i, p := range pairs {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = hfmt.Appendf(b, "off=%d: %+d", p.Offset, p.Delta)
	}

	return append(b, "}\n"...)
}

func formatValuePairs(b []byte, pairs []ir.OffsetValue) []byte {
	b = append(b, '{')

	for i, p := range pairs {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = hfmt.Appendf(b, "off=%d: %d", p.Offset, p.Value)
	}

	return append(b, "}\n"...)
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
