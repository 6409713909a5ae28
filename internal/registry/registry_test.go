package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"

	"github.com/epitrack/weave/internal/core/model"
	"github.com/epitrack/weave/internal/driver"
)

var dupKeys = []string{"uuid", "kind", "first_name", "last_name", "dob", "age_years", "age_months", "visual_id", "date"}

func TestFindDuplicatesMapsRecords(t *testing.T) {
	mock := &MockDriver{
		MockResult: neo4j.EagerResult{Records: []*neo4j.Record{
			record(dupKeys, []any{"dup-1", "contact", "Jane", "Doe", "", int64(30), int64(0), "CASE-0042", ""}),
			record(dupKeys, []any{"dup-2", "case", "Jane", "Dow", "1990-05-01", int64(0), int64(0), "", ""}),
		}},
	}
	reg := NewRegistry(mock)

	people, err := reg.FindDuplicates(context.Background(), "ob-1", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
	})

	assert.NoError(t, err)
	assert.Equal(t, driver.FindDuplicatePersonsQuery, mock.QueryExecuted)
	assert.Equal(t, "jane", mock.QueryParams["first_name_lower"])
	assert.Equal(t, "doe", mock.QueryParams["last_name_lower"])
	assert.Equal(t, 10, mock.QueryParams["limit"])
	assert.Len(t, people, 2)
	assert.Equal(t, "dup-1", people[0].ID)
	assert.Equal(t, model.KindContact, people[0].Kind)
	assert.Equal(t, &model.Age{Years: 30}, people[0].Age)
	assert.Nil(t, people[1].Age)
	assert.Equal(t, "1990-05-01", people[1].DOB)
}

func TestFindDuplicatesPropagatesDriverError(t *testing.T) {
	mock := &MockDriver{Err: errors.New("bolt down")}
	reg := NewRegistry(mock)

	_, err := reg.FindDuplicates(context.Background(), "ob-1", map[string]any{})

	assert.ErrorContains(t, err, "failed to search duplicates")
}

func TestCreatePersonBuildsParams(t *testing.T) {
	mock := &MockDriver{}
	reg := NewRegistry(mock)
	reg.UUIDGenerator = func() string { return "p-1" }

	p, err := reg.CreatePerson(context.Background(), "ob-1", model.KindContactOfContact, map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"age":        map[string]any{"years": float64(30)},
		"visual_id":  "CASE-0042",
	})

	assert.NoError(t, err)
	assert.Equal(t, driver.SavePersonQuery, mock.QueryExecuted)
	assert.Equal(t, "p-1", mock.QueryParams["uuid"])
	assert.Equal(t, "contactOfContact", mock.QueryParams["kind"])
	assert.Equal(t, "jane doe", mock.QueryParams["name_lower"])
	assert.Equal(t, 30, mock.QueryParams["age_years"])
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, &model.Age{Years: 30}, p.Age)
}

func TestCreateRelationshipLinksNewPersonToRelated(t *testing.T) {
	mock := &MockDriver{}
	reg := NewRegistry(mock)
	reg.UUIDGenerator = func() string { return "rel-1" }

	err := reg.CreateRelationship(context.Background(), "ob-1", model.KindContactOfContact, "p-1", "contact-9", map[string]any{
		"contact_date": "2024-03-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, driver.SaveRelationshipQuery, mock.QueryExecuted)
	assert.Equal(t, "p-1", mock.QueryParams["source_uuid"])
	assert.Equal(t, "contact-9", mock.QueryParams["target_uuid"])
	assert.Equal(t, "2024-03-01", mock.QueryParams["contact_date"])
}

func TestMarkNotDuplicate(t *testing.T) {
	mock := &MockDriver{}
	reg := NewRegistry(mock)

	err := reg.MarkNotDuplicate(context.Background(), "ob-1", model.KindContactOfContact, "p-1", []string{"dup-1", "dup-2"})

	assert.NoError(t, err)
	assert.Equal(t, driver.MarkNotDuplicateQuery, mock.QueryExecuted)
	assert.Equal(t, "p-1", mock.QueryParams["uuid"])
	assert.Equal(t, []string{"dup-1", "dup-2"}, mock.QueryParams["duplicate_uuids"])
}

func TestDeletePerson(t *testing.T) {
	mock := &MockDriver{}
	reg := NewRegistry(mock)

	err := reg.DeletePerson(context.Background(), "ob-1", "p-1")

	assert.NoError(t, err)
	assert.Equal(t, driver.DeletePersonQuery, mock.QueryExecuted)
	assert.Equal(t, "p-1", mock.QueryParams["uuid"])
}

func TestCheckVisualIDMaskMismatchSkipsQuery(t *testing.T) {
	mock := &MockDriver{}
	reg := NewRegistry(mock)

	valid, err := reg.CheckVisualID(context.Background(), "ob-1", "CASE-9999", "CASE-00X2")

	assert.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, mock.Queries)
}

func TestCheckVisualIDTakenValueIsInvalid(t *testing.T) {
	mock := &MockDriver{
		MockResult: neo4j.EagerResult{Records: []*neo4j.Record{
			record([]string{"hits"}, []any{int64(1)}),
		}},
	}
	reg := NewRegistry(mock)

	valid, err := reg.CheckVisualID(context.Background(), "ob-1", "CASE-9999", "CASE-0042")

	assert.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, driver.CountVisualIDQuery, mock.QueryExecuted)
}

func TestCheckVisualIDFreeValueIsValid(t *testing.T) {
	mock := &MockDriver{
		MockResult: neo4j.EagerResult{Records: []*neo4j.Record{
			record([]string{"hits"}, []any{int64(0)}),
		}},
	}
	reg := NewRegistry(mock)

	valid, err := reg.CheckVisualID(context.Background(), "ob-1", "CASE-9999", "CASE-0042")

	assert.NoError(t, err)
	assert.True(t, valid)
}
