package interp

import (
	"testing"

	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/value"
)

func TestExecuteCodePushConstant(t *testing.T) {
	i := New()
	c := code.Code{
		code.NewInstruction(nil, code.PushConstantValue, value.NewInt(41)),
		code.NewInstruction(nil, code.PushConstantValue, value.NewInt(1)),
	}

	if err := i.ExecuteCode("<test>", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", i.Depth())
	}

	top, _ := i.Pop()
	if n, _ := top.AsInt(); n != 1 {
		t.Errorf("expected top 1, got %d", n)
	}
}

func TestExecuteCodeVariableRoundTrip(t *testing.T) {
	i := New()
	c := code.Code{
		code.NewInstruction(nil, code.DefVariable, value.NewString("x")),
		code.NewInstruction(nil, code.PushConstantValue, value.NewInt(99)),
		code.NewInstruction(nil, code.Execute, value.NewString("x")),
		code.NewInstruction(nil, code.WriteVariable, value.None()),
		code.NewInstruction(nil, code.Execute, value.NewString("x")),
		code.NewInstruction(nil, code.ReadVariable, value.None()),
	}

	if err := i.ExecuteCode("<test>", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top, err := i.Pop()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := top.AsInt(); n != 99 {
		t.Errorf("expected 99, got %d", n)
	}
}

func TestExecuteCodeForwardJumpSkipsInstruction(t *testing.T) {
	i := New()
	c := code.Code{
		code.NewInstruction(nil, code.Jump, value.NewInt(2)),
		code.NewInstruction(nil, code.PushConstantValue, value.NewInt(1)),
		code.NewInstruction(nil, code.PushConstantValue, value.NewInt(2)),
	}

	if err := i.ExecuteCode("<test>", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i.Depth() != 1 {
		t.Fatalf("expected depth 1 (skipped instruction), got %d", i.Depth())
	}
	top, _ := i.Pop()
	if n, _ := top.AsInt(); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestExecuteCodeCatchRecoversError(t *testing.T) {
	i := New()
	c := code.Code{
		code.NewInstruction(nil, code.MarkCatch, value.NewInt(2)),
		code.NewInstruction(nil, code.Execute, value.NewString("missing-word")),
		code.NewInstruction(nil, code.Jump, value.NewInt(2)),
		code.NewInstruction(nil, code.UnmarkCatch, value.None()),
	}

	if err := i.ExecuteCode("<test>", c); err != nil {
		t.Fatalf("expected the catch frame to recover the error, got %v", err)
	}
	if i.Depth() != 1 {
		t.Fatalf("expected the error message to have been pushed, got depth %d", i.Depth())
	}
}
