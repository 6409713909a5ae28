package creation

import "fmt"

// Stage identifies one remote-write step of the saga.
type Stage string

const (
	StageDuplicateCheck Stage = "duplicate-check"
	StageCreate         Stage = "create"
	StageRelationship   Stage = "relationship"
	StageAnnotate       Stage = "annotate-duplicates"
)

// StageError tags a collaborator failure with the stage it happened in.
// The underlying error is carried unchanged.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Outcome is the terminal result of one creation attempt. Exactly one of
// the three terminal shapes holds: Created (PersonID set, Err nil),
// Cancelled, or Failed (Err set). An annotate failure is the one overlap:
// PersonID and Err are both set because the record stays committed.
type Outcome struct {
	PersonID      string
	Cancelled     bool
	CreateAnother bool
	Err           *StageError
}

func (o Outcome) Created() bool { return o.PersonID != "" }
func (o Outcome) Failed() bool  { return o.Err != nil }
