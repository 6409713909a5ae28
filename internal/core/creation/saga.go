// Package creation orchestrates registering a new person record: duplicate
// lookup, operator review, then the ordered create -> relate -> annotate
// write sequence with compensating rollback.
package creation

import (
	"context"
	"log"
	"strings"

	"github.com/epitrack/weave/internal/core/model"
	"github.com/epitrack/weave/internal/core/summarize"
)

// Directory is the data-access collaborator the saga writes through.
type Directory interface {
	FindDuplicates(ctx context.Context, outbreakID string, fields map[string]any) ([]model.Person, error)
	CreatePerson(ctx context.Context, outbreakID string, kind model.Kind, fields map[string]any) (model.Person, error)
	DeletePerson(ctx context.Context, outbreakID, personID string) error
	CreateRelationship(ctx context.Context, outbreakID string, kind model.Kind, personID, relatedID string, fields map[string]any) error
	MarkNotDuplicate(ctx context.Context, outbreakID string, kind model.Kind, personID string, duplicateIDs []string) error
}

// Candidate is one probable duplicate as presented to the operator.
type Candidate struct {
	ID     string         `json:"uuid"`
	Label  string         `json:"label"`
	Fields []model.Option `json:"fields,omitempty"`
}

// Reviewer collects the operator's per-candidate decision. ok=false means
// the operator closed the review without confirming; no writes happen.
type Reviewer interface {
	Review(ctx context.Context, candidates []Candidate) (model.DuplicateDecision, bool)
}

// Progress scopes a loading indicator around one saga step. The returned
// release func runs on every exit path of the step.
type Progress interface {
	Begin(stage Stage) (done func())
}

type nopProgress struct{}

func (nopProgress) Begin(Stage) func() { return func() {} }

type Saga struct {
	Directory Directory
	Reviewer  Reviewer
	Progress  Progress
}

func NewSaga(directory Directory, reviewer Reviewer) *Saga {
	return &Saga{
		Directory: directory,
		Reviewer:  reviewer,
		Progress:  nopProgress{},
	}
}

// Input is one validated creation attempt handed over by the UI layer.
type Input struct {
	OutbreakID      string
	Kind            model.Kind
	Fields          map[string]any
	Relationship    map[string]any
	RelatedEntityID string
	CreateAnother   bool
}

// Run executes the creation saga to a terminal outcome. Steps are strictly
// sequential; once CreatePerson has been issued the saga runs to Done or a
// failed terminal state without external cancellation.
func (s *Saga) Run(ctx context.Context, in Input) Outcome {
	fields, relFields := splitRelationship(in.Fields, in.Relationship)

	var candidates []model.Person
	if serr := s.step(StageDuplicateCheck, func() error {
		var err error
		candidates, err = s.Directory.FindDuplicates(ctx, in.OutbreakID, fields)
		return err
	}); serr != nil {
		return Outcome{Err: serr, CreateAnother: in.CreateAnother}
	}

	decision := model.NewDuplicateDecision(personIDs(candidates))
	if len(candidates) > 0 {
		choices, ok := s.Reviewer.Review(ctx, RenderCandidates(candidates))
		if !ok {
			return Outcome{Cancelled: true, CreateAnother: in.CreateAnother}
		}
		decision.Apply(choices)
	}

	var person model.Person
	if serr := s.step(StageCreate, func() error {
		var err error
		person, err = s.Directory.CreatePerson(ctx, in.OutbreakID, in.Kind, fields)
		return err
	}); serr != nil {
		return Outcome{Err: serr, CreateAnother: in.CreateAnother}
	}

	if serr := s.step(StageRelationship, func() error {
		return s.Directory.CreateRelationship(ctx, in.OutbreakID, in.Kind, person.ID, in.RelatedEntityID, relFields)
	}); serr != nil {
		// Roll back the orphaned record. Best-effort: a failed delete is
		// logged, not surfaced over the relationship error.
		if delErr := s.Directory.DeletePerson(ctx, in.OutbreakID, person.ID); delErr != nil {
			log.Printf("failed to delete person %s after relationship failure: %v", person.ID, delErr)
		}
		return Outcome{Err: serr, CreateAnother: in.CreateAnother}
	}

	if suppress := decision.NotDuplicates(); len(suppress) > 0 {
		if serr := s.step(StageAnnotate, func() error {
			return s.Directory.MarkNotDuplicate(ctx, in.OutbreakID, in.Kind, person.ID, suppress)
		}); serr != nil {
			// Non-fatal: the record and relationship stay committed, so the
			// outcome still carries the new id.
			return Outcome{PersonID: person.ID, Err: serr, CreateAnother: in.CreateAnother}
		}
	}

	return Outcome{PersonID: person.ID, CreateAnother: in.CreateAnother}
}

// step runs one remote operation inside a progress scope, tagging any
// failure with its stage. The scope is released on every exit path.
func (s *Saga) step(stage Stage, fn func() error) *StageError {
	progress := s.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	done := progress.Begin(stage)
	defer done()
	if err := fn(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}

// RenderCandidates builds the operator-facing view of the duplicate set:
// each record's name combined with its dob-or-age composite.
func RenderCandidates(candidates []model.Person) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, p := range candidates {
		label := strings.TrimSpace(p.Name() + " " + summarize.PersonAgeDOB(p))
		out = append(out, Candidate{ID: p.ID, Label: label, Fields: p.DisplayFields()})
	}
	return out
}

// splitRelationship extracts the relationship sub-object from the field
// values before the create call. An explicit relationship map wins over an
// embedded "relationship" key. The caller's map is never mutated.
func splitRelationship(fields, relationship map[string]any) (map[string]any, map[string]any) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	embedded, _ := out["relationship"].(map[string]any)
	delete(out, "relationship")
	if relationship == nil {
		relationship = embedded
	}
	return out, relationship
}

func personIDs(people []model.Person) []string {
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	return ids
}
