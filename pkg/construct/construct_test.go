package construct

import (
	"testing"

	"github.com/sorth-lang/sorth/pkg/code"
	"github.com/sorth-lang/sorth/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveJumpsForwardAndBackward(t *testing.T) {
	c := NewConstruction()
	c.Code = code.Code{
		code.NewInstruction(nil, code.Jump, value.NewString("end")),
		code.NewInstruction(nil, code.PushConstantValue, value.NewInt(1)),
		code.NewInstruction(nil, code.JumpTarget, value.NewString("end")),
		code.NewInstruction(nil, code.JumpTarget, value.NewString("start")),
		code.NewInstruction(nil, code.Jump, value.NewString("start")),
	}

	require.NoError(t, c.ResolveJumps())

	forward, _ := c.Code[0].Operand.AsInt()
	assert.Equal(t, int64(2), forward, "forward jump offset")

	backward, _ := c.Code[4].Operand.AsInt()
	assert.Equal(t, int64(-1), backward, "backward jump offset")

	assert.True(t, c.Code[2].Operand.IsNone(), "JumpTarget operand should be cleared after resolution")

	// Idempotent: resolving again (no labels left) must not error or change anything.
	before := append(code.Code{}, c.Code...)
	require.NoError(t, c.ResolveJumps())
	for i := range before {
		assert.Equal(t, before[i].Op, c.Code[i].Op, "resolve not idempotent at %d", i)
	}
}

func TestConstructorPushAndMerge(t *testing.T) {
	c := NewConstructor(nil)
	c.PushInstruction(code.NewInstruction(nil, code.PushConstantValue, value.NewInt(1)))

	c.PushConstruction()
	c.PushInstruction(code.NewInstruction(nil, code.PushConstantValue, value.NewInt(2)))

	require.NoError(t, c.MergeConstruction())

	top, err := c.Top()
	require.NoError(t, err)
	assert.Len(t, top.Code, 2)
}

func TestConstructorInsertionAtTop(t *testing.T) {
	c := NewConstructor(nil)
	c.PushInstruction(code.NewInstruction(nil, code.PushConstantValue, value.NewInt(1)))
	c.SetInsertion(AtTop)
	c.PushInstruction(code.NewInstruction(nil, code.PushConstantValue, value.NewInt(2)))

	top, err := c.Top()
	require.NoError(t, err)

	got, _ := top.Code[0].Operand.AsInt()
	assert.Equal(t, int64(2), got, "expected the AtTop insertion to land first")
}
