package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/go-bf/bf/compiler"
	"github.com/go-bf/bf/compiler/exec"
	"github.com/go-bf/bf/compiler/format"
)

func main() {
	app := &cli.Command{
		Name:        "bfi",
		Description: "bfi runs a Brainfuck program",
		Action:      run,
		Args:        cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func run(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	tapeSize := 30000
	dumpIR := false

	var files []string

	for _, a := range c.Args {
		switch {
		case strings.HasPrefix(a, "--tape="):
			tapeSize, err = strconv.Atoi(strings.TrimPrefix(a, "--tape="))
			if err != nil {
				return errors.Wrap(err, "parse --tape")
			}
		case a == "--dump-ir":
			dumpIR = true
		default:
			files = append(files, a)
		}
	}

	if len(files) != 1 {
		return errors.New("usage: bfi [--tape=N] [--dump-ir] <file>")
	}

	p, err := compiler.CompileFile(ctx, files[0])
	if err != nil {
		return errors.Wrap(err, "compile %v", files[0])
	}

	if dumpIR {
		b, err := format.Format(ctx, nil, p)
		if err != nil {
			return errors.Wrap(err, "format")
		}

		os.Stdout.Write(b)

		return nil
	}

	if tapeSize <= 0 {
		return errors.New("--tape must be positive, got %d", tapeSize)
	}

	tape := make([]byte, tapeSize)
	prog := exec.Flatten(p)

	return exec.Run(ctx, prog, tape, os.Stdin, os.Stdout)
}
