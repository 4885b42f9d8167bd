package exec

import (
	"bufio"
	"context"
	"io"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Run executes p against tape, starting with the pointer at tape[0].
// Input bytes come from r one at a time; once r is exhausted, every
// further Input leaves its cell at zero instead of erroring. Output
// bytes are buffered and flushed to w once, when Run returns.
//
// Cell offsets are never bounds-checked against tape's length: a
// program that walks off either end of the tape is a caller error,
// reported back as a panic recovered into the returned error rather
// than paid for on every single-cell access.
func Run(ctx context.Context, p *Program, tape []byte, r io.Reader, w io.Writer) (err error) {
	in := bufio.NewReader(r)
	out := bufio.NewWriter(w)

	defer func() {
		if ferr := out.Flush(); err == nil {
			err = ferr
		}

		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = errors.Wrap(e, "tape access out of bounds")
			} else {
				panic(rec)
			}
		}
	}()

	ptr := 0
	pc := 0

	for pc < len(p.Ops) {
		op := p.Ops[pc]

		switch op.Kind {
		case KindPtrAdd:
			ptr += op.Delta
		case KindValAdd:
			i := ptr + op.Offset
			tape[i] += byte(op.Delta)
		case KindSet:
			tape[ptr+op.Offset] = byte(op.Value)
		case KindMulAdd:
			i := ptr + op.Offset
			tape[i] += tape[ptr] * byte(op.Factor)
		case KindBulkAdd:
			for _, a := range op.Adds {
				i := ptr + a.Offset
				tape[i] += byte(a.Delta)
			}
		case KindBulkSet:
			for _, s := range op.Sets {
				tape[ptr+s.Offset] = byte(s.Value)
			}
		case KindScanLeft:
			for tape[ptr] != 0 {
				ptr -= op.Stride
			}
		case KindScanRight:
			for tape[ptr] != 0 {
				ptr += op.Stride
			}
		case KindInput:
			c, rerr := in.ReadByte()
			switch {
			case rerr == nil:
				tape[ptr+op.Offset] = c
			case rerr == io.EOF:
				tape[ptr+op.Offset] = 0
			default:
				return errors.Wrap(rerr, "read input")
			}
		case KindOutput:
			if werr := out.WriteByte(tape[ptr+op.Offset]); werr != nil {
				return errors.Wrap(werr, "write output")
			}
		case KindLoopStart:
			if tape[ptr] == 0 {
				pc = op.Jump
				continue
			}
		case KindLoopEnd:
			if tape[ptr] != 0 {
				pc = op.Jump
				continue
			}
		}

		pc++
	}

	tlog.SpanFromContext(ctx).Printw("run finished", "ops", len(p.Ops))

	return nil
}
