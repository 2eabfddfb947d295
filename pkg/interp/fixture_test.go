package interp_test

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/sorth-lang/sorth/pkg/builtins"
	"github.com/sorth-lang/sorth/pkg/compiler"
	"github.com/sorth-lang/sorth/pkg/interp"
	"github.com/stretchr/testify/require"
)

// runScript compiles and executes source against a freshly built
// interpreter with the full base vocabulary installed, returning the
// resulting data stack rendered one value per line, the snapshot
// payload for the table below.
func runScript(t *testing.T, source string) string {
	t.Helper()

	i := interp.New()
	builtins.RegisterAll(i)

	require.NoError(t, compiler.ProcessSource(i, "<fixture>", source))

	var lines []string
	for _, v := range i.Stack {
		lines = append(lines, v.String())
	}
	return strings.Join(lines, "\n")
}

// TestEndToEndScenarios snapshots the final data-stack contents of a
// handful of representative scripts exercising arithmetic, control
// flow, word definitions, and try/catch, matching the scenario table
// spec.md §8 describes.
func TestEndToEndScenarios(t *testing.T) {
	scenarios := []struct {
		name   string
		source string
	}{
		{
			name:   "arithmetic",
			source: `1 2 + 3 *`,
		},
		{
			name:   "word_definition",
			source: `: square dup * ; 5 square`,
		},
		{
			name: "conditional",
			source: `: classify
				dup 0 > if drop "positive" else drop "non-positive" then ;
				7 classify -3 classify`,
		},
		{
			name: "counted_loop",
			source: `variable total
				0 total !
				10 0 do i total @ + total ! loop
				total @`,
		},
		{
			name:   "try_catch",
			source: `try 1 0 / catch drop "caught" endcatch`,
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, runScript(t, scenario.source))
		})
	}
}
