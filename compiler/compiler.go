// Package compiler wires the front end and optimizer together and
// hands the result to whichever back end the caller wants: the
// interpreter's flattened form (compiler/exec) or a transpiled
// source file (compiler/emit).
package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/go-bf/bf/compiler/emit"
	"github.com/go-bf/bf/compiler/front"
	"github.com/go-bf/bf/compiler/ir"
	"github.com/go-bf/bf/compiler/optimize"
)

// CompileFile reads name from disk and compiles it to an optimized
// ir.Program.
func CompileFile(ctx context.Context, name string) (*ir.Program, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

// Compile parses and optimizes a Brainfuck source buffer. name is
// used only to attribute parse errors; it need not be a real path.
func Compile(ctx context.Context, name string, text []byte) (*ir.Program, error) {
	st := front.New()
	st.AddFile(ctx, name, text)

	p, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	return optimize.Run(ctx, p), nil
}

// TranspileFile reads name from disk, compiles it, and emits the
// target language's source for it.
func TranspileFile(ctx context.Context, name string) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Transpile(ctx, name, text)
}

// Transpile parses, optimizes, and emits a Brainfuck source buffer.
func Transpile(ctx context.Context, name string, text []byte) ([]byte, error) {
	p, err := Compile(ctx, name, text)
	if err != nil {
		return nil, err
	}

	out, err := emit.Emit(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err, "emit")
	}

	return out, nil
}
