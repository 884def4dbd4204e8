package annotation

import "fmt"

// Position of a character in a text document (zero-based line and column)
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Range of text between two positions, end exclusive
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes before q in document order
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// Surface is the text-hosting capability required by the prediction engine.
// A host editor (or the in-memory Buffer) implements it; the engine has no
// knowledge of any specific editor beyond these operations.
type Surface interface {
	// TextInRange returns the current text within r.
	TextInRange(r Range) (string, error)

	// ReplaceRange substitutes text for the contents of r and returns the
	// range occupied by the new text.
	ReplaceRange(r Range, text string) (Range, error)

	// BeginCheckpoint opens an undo checkpoint. All subsequent programmatic
	// edits group into it until the next call, so repeated prediction
	// rewrites collapse into a single undo step.
	BeginCheckpoint()

	// SuspendChangeEvents stops the surface from reporting edits to its
	// change listeners. Programmatic rewrites are bracketed between
	// SuspendChangeEvents and ResumeChangeEvents so they are not mistaken
	// for user edits.
	SuspendChangeEvents()
	ResumeChangeEvents()
}
