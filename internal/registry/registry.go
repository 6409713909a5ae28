// Package registry implements the person-directory collaborators on top of
// the graph driver: duplicate search, person and relationship writes,
// not-a-duplicate marking and visual-ID checks.
package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/epitrack/weave/internal/core/model"
	"github.com/epitrack/weave/internal/driver"
)

type Registry struct {
	Driver driver.GraphDriver

	// Overridable for deterministic tests.
	UUIDGenerator func() string

	// MaxCandidates caps one duplicate search result.
	MaxCandidates int
}

func NewRegistry(d driver.GraphDriver) *Registry {
	return &Registry{
		Driver:        d,
		UUIDGenerator: func() string { return uuid.New().String() },
		MaxCandidates: 10,
	}
}

func (r *Registry) FindDuplicates(ctx context.Context, outbreakID string, fields map[string]any) ([]model.Person, error) {
	params := map[string]interface{}{
		"outbreak_id":      outbreakID,
		"first_name_lower": strings.ToLower(fieldString(fields, "first_name")),
		"last_name_lower":  strings.ToLower(fieldString(fields, "last_name")),
		"dob":              fieldString(fields, "dob"),
		"exclude_uuid":     fieldString(fields, "uuid"),
		"limit":            r.MaxCandidates,
	}

	result, err := r.Driver.ExecuteQuery(ctx, driver.FindDuplicatePersonsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search duplicates: %w", err)
	}

	var people []model.Person
	for _, rec := range result.Records {
		p := model.Person{
			ID:         recordString(rec, "uuid"),
			Kind:       model.Kind(recordString(rec, "kind")),
			OutbreakID: outbreakID,
			FirstName:  recordString(rec, "first_name"),
			LastName:   recordString(rec, "last_name"),
			VisualID:   recordString(rec, "visual_id"),
			DOB:        recordString(rec, "dob"),
			Date:       recordString(rec, "date"),
		}
		years, months := recordInt(rec, "age_years"), recordInt(rec, "age_months")
		if years > 0 || months > 0 {
			p.Age = &model.Age{Years: years, Months: months}
		}
		people = append(people, p)
	}
	return people, nil
}

func (r *Registry) CreatePerson(ctx context.Context, outbreakID string, kind model.Kind, fields map[string]any) (model.Person, error) {
	p := model.Person{
		ID:         r.UUIDGenerator(),
		Kind:       kind,
		OutbreakID: outbreakID,
		FirstName:  fieldString(fields, "first_name"),
		LastName:   fieldString(fields, "last_name"),
		VisualID:   fieldString(fields, "visual_id"),
		DOB:        fieldString(fields, "dob"),
		Date:       fieldString(fields, "date"),
		CreatedAt:  time.Now().UTC(),
	}
	var years, months int
	if age, ok := fields["age"].(map[string]any); ok {
		years, months = fieldInt(age, "years"), fieldInt(age, "months")
		if years > 0 || months > 0 {
			p.Age = &model.Age{Years: years, Months: months}
		}
	}

	params := map[string]interface{}{
		"uuid":        p.ID,
		"kind":        string(p.Kind),
		"outbreak_id": p.OutbreakID,
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"name_lower":  strings.ToLower(p.Name()),
		"dob":         p.DOB,
		"age_years":   years,
		"age_months":  months,
		"visual_id":   p.VisualID,
		"date":        p.Date,
		"created_at":  p.CreatedAt.Format(time.RFC3339),
	}

	if _, err := r.Driver.ExecuteQuery(ctx, driver.SavePersonQuery, params); err != nil {
		return model.Person{}, fmt.Errorf("failed to create person: %w", err)
	}
	return p, nil
}

func (r *Registry) DeletePerson(ctx context.Context, outbreakID, personID string) error {
	params := map[string]interface{}{
		"uuid":        personID,
		"outbreak_id": outbreakID,
	}
	if _, err := r.Driver.ExecuteQuery(ctx, driver.DeletePersonQuery, params); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}

func (r *Registry) CreateRelationship(ctx context.Context, outbreakID string, kind model.Kind, personID, relatedID string, fields map[string]any) error {
	params := map[string]interface{}{
		"uuid":            r.UUIDGenerator(),
		"source_uuid":     personID,
		"target_uuid":     relatedID,
		"outbreak_id":     outbreakID,
		"source_kind":     string(kind),
		"contact_date":    fieldString(fields, "contact_date"),
		"certainty_level": fieldString(fields, "certainty_level"),
		"exposure_type":   fieldString(fields, "exposure_type"),
		"created_at":      time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := r.Driver.ExecuteQuery(ctx, driver.SaveRelationshipQuery, params); err != nil {
		return fmt.Errorf("failed to create relationship: %w", err)
	}
	return nil
}

func (r *Registry) MarkNotDuplicate(ctx context.Context, outbreakID string, kind model.Kind, personID string, duplicateIDs []string) error {
	params := map[string]interface{}{
		"uuid":            personID,
		"outbreak_id":     outbreakID,
		"duplicate_uuids": duplicateIDs,
		"created_at":      time.Now().UTC().Format(time.RFC3339),
	}
	if _, err := r.Driver.ExecuteQuery(ctx, driver.MarkNotDuplicateQuery, params); err != nil {
		return fmt.Errorf("failed to mark not-duplicate: %w", err)
	}
	return nil
}

// CheckVisualID reports whether a candidate visual ID both matches the
// outbreak mask and is not already taken.
func (r *Registry) CheckVisualID(ctx context.Context, outbreakID, mask, value string) (bool, error) {
	re, err := MaskPattern(mask)
	if err != nil {
		return false, err
	}
	if !re.MatchString(value) {
		return false, nil
	}

	params := map[string]interface{}{
		"outbreak_id": outbreakID,
		"visual_id":   value,
	}
	result, err := r.Driver.ExecuteQuery(ctx, driver.CountVisualIDQuery, params)
	if err != nil {
		return false, fmt.Errorf("failed to check visual id: %w", err)
	}
	for _, rec := range result.Records {
		if recordInt(rec, "hits") > 0 {
			return false, nil
		}
	}
	return true, nil
}
