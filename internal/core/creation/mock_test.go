package creation

import (
	"context"

	"github.com/epitrack/weave/internal/core/model"
)

// MockDirectory records every collaborator call and fails on demand.
type MockDirectory struct {
	Duplicates    []model.Person
	DuplicatesErr error

	Created   model.Person
	CreateErr error

	RelationshipErr error
	AnnotateErr     error
	DeleteErr       error

	Calls []string

	CreateFields    map[string]any
	RelFields       map[string]any
	RelPersonID     string
	RelRelatedID    string
	DeletedIDs      []string
	MarkedPersonID  string
	MarkedDuplicate []string
}

func (m *MockDirectory) FindDuplicates(ctx context.Context, outbreakID string, fields map[string]any) ([]model.Person, error) {
	m.Calls = append(m.Calls, "find")
	if m.DuplicatesErr != nil {
		return nil, m.DuplicatesErr
	}
	return m.Duplicates, nil
}

func (m *MockDirectory) CreatePerson(ctx context.Context, outbreakID string, kind model.Kind, fields map[string]any) (model.Person, error) {
	m.Calls = append(m.Calls, "create")
	m.CreateFields = fields
	if m.CreateErr != nil {
		return model.Person{}, m.CreateErr
	}
	return m.Created, nil
}

func (m *MockDirectory) DeletePerson(ctx context.Context, outbreakID, personID string) error {
	m.Calls = append(m.Calls, "delete")
	m.DeletedIDs = append(m.DeletedIDs, personID)
	return m.DeleteErr
}

func (m *MockDirectory) CreateRelationship(ctx context.Context, outbreakID string, kind model.Kind, personID, relatedID string, fields map[string]any) error {
	m.Calls = append(m.Calls, "relate")
	m.RelPersonID = personID
	m.RelRelatedID = relatedID
	m.RelFields = fields
	return m.RelationshipErr
}

func (m *MockDirectory) MarkNotDuplicate(ctx context.Context, outbreakID string, kind model.Kind, personID string, duplicateIDs []string) error {
	m.Calls = append(m.Calls, "mark")
	m.MarkedPersonID = personID
	m.MarkedDuplicate = duplicateIDs
	return m.AnnotateErr
}

// MockReviewer answers the review suspension with a fixed decision.
type MockReviewer struct {
	Decision model.DuplicateDecision
	Confirm  bool
	Seen     []Candidate
	Called   bool
}

func (m *MockReviewer) Review(ctx context.Context, candidates []Candidate) (model.DuplicateDecision, bool) {
	m.Called = true
	m.Seen = candidates
	return m.Decision, m.Confirm
}

// MockProgress tracks begin/release pairing per stage.
type MockProgress struct {
	Begun    []Stage
	Released []Stage
}

func (m *MockProgress) Begin(stage Stage) func() {
	m.Begun = append(m.Begun, stage)
	return func() { m.Released = append(m.Released, stage) }
}
