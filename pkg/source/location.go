package source

import "fmt"

// Location identifies a single point in a named source (a file path, or a
// synthetic name such as "<repl>"). Line and Column are 1-based.
type Location struct {
	Path   string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s (%d, %d)", l.Path, l.Line, l.Column)
}

func (l Location) IsBefore(o Location) bool {
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Column < o.Column
}
