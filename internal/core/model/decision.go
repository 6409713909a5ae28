package model

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Action is what the operator decided about one duplicate candidate.
type Action string

const (
	NoAction      Action = "noAction"
	NotADuplicate Action = "notADuplicate"
)

// DuplicateDecision maps candidate record ids to the operator's action.
// Every candidate defaults to NoAction until the operator changes it.
type DuplicateDecision map[string]Action

func NewDuplicateDecision(candidateIDs []string) DuplicateDecision {
	d := make(DuplicateDecision, len(candidateIDs))
	for _, id := range candidateIDs {
		d[id] = NoAction
	}
	return d
}

// Apply overlays operator choices onto the default decision. Ids that were
// never offered as candidates are ignored.
func (d DuplicateDecision) Apply(choices DuplicateDecision) {
	for id, action := range choices {
		if _, known := d[id]; known {
			d[id] = action
		}
	}
}

// NotDuplicates returns the ids the operator marked NotADuplicate, sorted
// so downstream requests are deterministic.
func (d DuplicateDecision) NotDuplicates() []string {
	var ids []string
	for id, action := range d {
		if action == NotADuplicate {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Validate rejects decisions whose actions fall outside the closed enum.
// Called at the boundary where the UI submits its review.
func (d DuplicateDecision) Validate() error {
	return validation.Validate(map[string]Action(d),
		validation.Each(validation.Required, validation.In(NoAction, NotADuplicate)),
	)
}
