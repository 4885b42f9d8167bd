package emit

import (
	"context"
	"strings"
	"testing"

	"github.com/go-bf/bf/compiler/ir"
)

func TestEmitOmitsIOImportWithoutInput(t *testing.T) {
	out, err := Emit(context.Background(), &ir.Program{Body: []ir.Node{
		ir.ValAdd{Offset: 0, Delta: 1},
		ir.Output{Offset: 0},
	}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	src := string(out)

	if strings.Contains(src, `"io"`) {
		t.Errorf("source imports io without any Input node:\n%s", src)
	}

	if !strings.Contains(src, "tape[ptr+(0)] += 1") {
		t.Errorf("source missing ValAdd translation:\n%s", src)
	}

	if !strings.Contains(src, "out.WriteByte(tape[ptr+(0)])") {
		t.Errorf("source missing Output translation:\n%s", src)
	}
}

func TestEmitImportsIOWithInput(t *testing.T) {
	out, err := Emit(context.Background(), &ir.Program{Body: []ir.Node{
		ir.Input{Offset: 0},
	}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	src := string(out)

	if !strings.Contains(src, `"io"`) {
		t.Errorf("source does not import io despite an Input node:\n%s", src)
	}

	if !strings.Contains(src, "in.ReadByte()") {
		t.Errorf("source missing Input translation:\n%s", src)
	}

	if !strings.Contains(src, "rerr == io.EOF") || !strings.Contains(src, "tape[ptr+(0)] = 0") {
		t.Errorf("source does not zero the cell on EOF:\n%s", src)
	}
}

func TestEmitNestedInputInLoop(t *testing.T) {
	out, err := Emit(context.Background(), &ir.Program{Body: []ir.Node{
		ir.Loop{Body: []ir.Node{ir.Input{Offset: 0}}},
	}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	if !strings.Contains(string(out), `"io"`) {
		t.Errorf("source does not import io for an Input nested in a loop")
	}
}

func TestEmitLoopAndMulAdd(t *testing.T) {
	out, err := Emit(context.Background(), &ir.Program{Body: []ir.Node{
		ir.MulAdd{Offset: 1, Factor: 3},
		ir.Loop{Body: []ir.Node{ir.ValAdd{Offset: 0, Delta: 1}}},
	}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	src := string(out)

	if !strings.Contains(src, "tape[ptr+(1)] += tape[ptr] * 3") {
		t.Errorf("source missing MulAdd translation:\n%s", src)
	}

	if !strings.Contains(src, "for tape[ptr] != 0 {") {
		t.Errorf("source missing loop translation:\n%s", src)
	}
}

func TestEmitNegativeDeltaWrapsTo256(t *testing.T) {
	out, err := Emit(context.Background(), &ir.Program{Body: []ir.Node{
		ir.ValAdd{Offset: 0, Delta: -1},
	}})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}

	// -1 mod 256 == 255; emitting a negative untyped constant into a
	// byte lvalue would not compile.
	if !strings.Contains(string(out), "tape[ptr+(0)] += 255") {
		t.Errorf("source does not fold -1 to 255:\n%s", string(out))
	}
}
