// Package emit renders an optimized ir.Program as a self-contained Go
// source file that reproduces it without any further dependency on
// this module. Cell arithmetic is plain byte arithmetic, which wraps
// modulo 256 the same way the interpreter's tape does, so every cell
// constant (delta, value, factor) this package writes out is first
// folded into 0..255. Offsets, pointer deltas and strides are written
// as they are.
package emit

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/go-bf/bf/compiler/ir"
)

const tapeSize = 30000

const header = `package main

import (
%s)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	var tape [%d]byte
	ptr := 0

%s	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

`

const postamble = `
	return nil
}
`

func Emit(ctx context.Context, p *ir.Program) (_ []byte, err error) {
	imports := "\t\"bufio\"\n"
	inDecl := ""
	if usesInput(p.Body) {
		imports += "\t\"io\"\n"
		inDecl = "\tin := bufio.NewReader(os.Stdin)\n"
	}
	imports += "\t\"os\"\n"

	b := hfmt.Appendf(nil, header, imports, tapeSize, inDecl)

	b, err = emitSeq(b, p.Body, 1)
	if err != nil {
		return nil, errors.Wrap(err, "emit body")
	}

	b = append(b, postamble...)

	tlog.SpanFromContext(ctx).Printw("emitted go source", "bytes", len(b))

	return b, nil
}

func usesInput(seq []ir.Node) bool {
	for _, n := range seq {
		switch x := n.(type) {
		case ir.Input:
			return true
		case ir.Loop:
			if usesInput(x.Body) {
				return true
			}
		}
	}

	return false
}

func emitSeq(b []byte, seq []ir.Node, d int) (_ []byte, err error) {
	for _, n := range seq {
		b, err = emitNode(b, n, d)
		if err != nil {
			return nil, errors.Wrap(err, "%T", n)
		}
	}

	return b, nil
}

func emitNode(b []byte, n ir.Node, d int) (_ []byte, err error) {
	switch x := n.(type) {
	case ir.PtrAdd:
		b = app(b, d, "ptr += %d\n", x.Delta)
	case ir.ValAdd:
		b = app(b, d, "tape[ptr+(%d)] += %d\n", x.Offset, mod256(x.Delta))
	case ir.Set:
		b = app(b, d, "tape[ptr+(%d)] = %d\n", x.Offset, mod256(x.Value))
	case ir.MulAdd:
		b = app(b, d, "tape[ptr+(%d)] += tape[ptr] * %d\n", x.Offset, mod256(x.Factor))
	case ir.BulkAdd:
		for _, p := range x.Pairs {
			b = app(b, d, "tape[ptr+(%d)] += %d\n", p.Offset, mod256(p.Delta))
		}
	case ir.BulkSet:
		for _, p := range x.Pairs {
			b = app(b, d, "tape[ptr+(%d)] = %d\n", p.Offset, mod256(p.Value))
		}
	case ir.ScanLeft:
		b = app(b, d, "for tape[ptr] != 0 {\n")
		b = app(b, d+1, "ptr -= %d\n", x.Stride)
		b = app(b, d, "}\n")
	case ir.ScanRight:
		b = app(b, d, "for tape[ptr] != 0 {\n")
		b = app(b, d+1, "ptr += %d\n", x.Stride)
		b = app(b, d, "}\n")
	case ir.Input:
		b = app(b, d, "if c, rerr := in.ReadByte(); rerr == nil {\n")
		b = app(b, d+1, "tape[ptr+(%d)] = c\n", x.Offset)
		b = app(b, d, "} else if rerr == io.EOF {\n")
		b = app(b, d+1, "tape[ptr+(%d)] = 0\n", x.Offset)
		b = app(b, d, "} else {\n")
		b = app(b, d+1, "return rerr\n")
		b = app(b, d, "}\n")
	case ir.Output:
		b = app(b, d, "if werr := out.WriteByte(tape[ptr+(%d)]); werr != nil {\n", x.Offset)
		b = app(b, d+1, "return werr\n")
		b = app(b, d, "}\n")
	case ir.Loop:
		b = app(b, d, "for tape[ptr] != 0 {\n")

		b, err = emitSeq(b, x.Body, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "loop body")
		}

		b = app(b, d, "}\n")
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

func mod256(v int) int {
	v %= 256
	if v < 0 {
		v += 256
	}

	return v
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)

	return b
}
