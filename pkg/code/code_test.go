package code

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/sorth-lang/sorth/pkg/value"
)

func TestPrettyPrintSnapshot(t *testing.T) {
	block := Code{
		NewInstruction(nil, PushConstantValue, value.NewInt(1)),
		NewInstruction(nil, PushConstantValue, value.NewInt(2)),
		NewInstruction(nil, Execute, value.NewString("+")),
		NewInstruction(nil, JumpIfZero, value.NewInt(6)),
		NewInstruction(nil, PushConstantValue, value.NewString("done")),
		NewInstruction(nil, JumpTarget, value.None()),
	}

	snaps.MatchSnapshot(t, PrettyPrint(block))
}
