// Package front turns a Brainfuck source byte stream into an ir.Program.
//
// The scanner ignores every byte that is not one of the eight command
// bytes; it performs no folding or peepholing of its own — that is
// the optimizer's job (compiler/optimize). The tree it builds is a
// faithful, possibly verbose, rendering of the source.
package front

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/go-bf/bf/compiler/ir"
)

type (
	// State holds the source bytes and the in-progress loop-nesting
	// stack while parsing.
	State struct {
		b []byte

		files []file
	}

	file struct {
		name string
		base int
		size int
	}

	// UnbalancedBracketsError is raised when a `]` has no matching
	// `[`, or an open `[` is never closed. Offset is the byte offset
	// of the offending bracket (the `]` itself, or the `[` that ran
	// off the end of the file).
	UnbalancedBracketsError struct {
		Offset int
	}
)

func (e UnbalancedBracketsError) Error() string {
	return errors.New("unbalanced brackets at offset %d", e.Offset).Error()
}

// New returns an empty parser State, mirroring the teacher's front.New().
func New() *State {
	return &State{}
}

// AddFile appends text to the parser's source buffer, recording name
// and base offset for diagnostics.
func (s *State) AddFile(ctx context.Context, name string, text []byte) {
	s.files = append(s.files, file{
		name: name,
		base: len(s.b),
		size: len(text),
	})

	s.b = append(s.b, text...)
}

// ParseFile reads name and parses it in one step.
func ParseFile(ctx context.Context, name string) (*ir.Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, data)
}

// Parse parses b as a single Brainfuck source unit.
func Parse(ctx context.Context, b []byte) (*ir.Program, error) {
	s := &State{b: b}

	return s.Parse(ctx)
}

// Parse scans the accumulated source and builds the IR tree.
func (s *State) Parse(ctx context.Context) (*ir.Program, error) {
	body, i, err := s.parseSeq(ctx, 0, -1)
	if err != nil {
		name, local := s.locate(i)
		if name == "" {
			return nil, errors.Wrap(err, "at offset %d", i)
		}

		return nil, errors.Wrap(err, "%s: at offset %d", name, local)
	}

	tlog.SpanFromContext(ctx).Printw("parsed program", "nodes", ir.NumNodes(body))

	return &ir.Program{Body: body}, nil
}

// locate reports the name of the added file offset o falls within
// and the offset local to that file. It returns "" if o was never
// attributed to a named file, which is the case for source passed
// directly to Parse instead of through AddFile.
func (s *State) locate(o int) (name string, local int) {
	for _, f := range s.files {
		if o >= f.base && o < f.base+f.size {
			return f.name, o - f.base
		}
	}

	return "", o
}

// parseSeq scans a straight run of commands starting at i, stopping
// at end of input (openAt == -1, the outer sequence) or at a matching
// `]` (openAt is the offset of the `[` that opened this body). It
// returns the offset just past the node that ended the sequence (past
// the `]`, or len(s.b) for the outer sequence).
func (s *State) parseSeq(ctx context.Context, i, openAt int) (seq []ir.Node, end int, err error) {
	tr := tlog.SpanFromContext(ctx)

	for i < len(s.b) {
		c, next := s.next(i)

		if tr.If("next_command") {
			tr.Printw("next command", "at", i, "c", string(c), "from", loc.Callers(1, 2))
		}

		switch c {
		case 0:
			// non-command byte, silently skipped
		case '+':
			seq = append(seq, ir.ValAdd{Offset: 0, Delta: 1})
		case '-':
			seq = append(seq, ir.ValAdd{Offset: 0, Delta: -1})
		case '>':
			seq = append(seq, ir.PtrAdd{Delta: 1})
		case '<':
			seq = append(seq, ir.PtrAdd{Delta: -1})
		case '.':
			seq = append(seq, ir.Output{Offset: 0})
		case ',':
			seq = append(seq, ir.Input{Offset: 0})
		case '[':
			var body []ir.Node

			body, next, err = s.parseSeq(ctx, next, i)
			if err != nil {
				return nil, next, err
			}

			seq = append(seq, ir.Loop{Body: body})
		case ']':
			if openAt < 0 {
				return nil, i, UnbalancedBracketsError{Offset: i}
			}

			return seq, next, nil
		}

		i = next
	}

	if openAt >= 0 {
		return nil, openAt, UnbalancedBracketsError{Offset: openAt}
	}

	return seq, i, nil
}

// next reports the command byte at i (0 if it is not one of the eight
// command bytes) and the offset of the following byte.
func (s *State) next(i int) (c byte, next int) {
	c = s.b[i]

	switch c {
	case '+', '-', '>', '<', '.', ',', '[', ']':
		return c, i + 1
	default:
		return 0, i + 1
	}
}
