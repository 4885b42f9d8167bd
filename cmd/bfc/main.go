package main

import (
	"context"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/go-bf/bf/compiler"
	"github.com/go-bf/bf/compiler/format"
)

func main() {
	app := &cli.Command{
		Name:        "bfc",
		Description: "bfc translates a Brainfuck program on stdin into Go source on stdout",
		Action:      run,
		Args:        cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func run(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	dumpIR := false

	for _, a := range c.Args {
		if a == "--dump-ir" {
			dumpIR = true
		}
	}

	text, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "read stdin")
	}

	if dumpIR {
		p, err := compiler.Compile(ctx, "<stdin>", text)
		if err != nil {
			return errors.Wrap(err, "compile")
		}

		b, err := format.Format(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format")
		}

		os.Stdout.Write(b)

		return nil
	}

	out, err := compiler.Transpile(ctx, "<stdin>", text)
	if err != nil {
		return errors.Wrap(err, "transpile")
	}

	os.Stdout.Write(out)

	return nil
}
