package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of person-record variants tracked in an outbreak.
type Kind string

const (
	KindCase             Kind = "case"
	KindContact          Kind = "contact"
	KindEvent            Kind = "event"
	KindContactOfContact Kind = "contactOfContact"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCase, KindContact, KindEvent, KindContactOfContact:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown person kind %q", s)
}

type Age struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

type Person struct {
	ID         string    `json:"uuid"`
	Kind       Kind      `json:"kind"`
	OutbreakID string    `json:"outbreak_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	VisualID   string    `json:"visual_id,omitempty"`
	DOB        string    `json:"dob,omitempty"`
	Age        *Age      `json:"age,omitempty"`
	Date       string    `json:"date,omitempty"` // events only
	CreatedAt  time.Time `json:"created_at"`
}

func (p Person) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// kindFields maps each kind to its display-field builder once, so call
// sites never type-switch on the variant.
var kindFields = map[Kind]func(Person) []Option{
	KindCase:             personFields,
	KindContact:          personFields,
	KindContactOfContact: personFields,
	KindEvent:            eventFields,
}

// DisplayFields renders the fields shown when the record appears as a
// duplicate candidate or merge participant.
func (p Person) DisplayFields() []Option {
	build, ok := kindFields[p.Kind]
	if !ok {
		build = personFields
	}
	return build(p)
}

func personFields(p Person) []Option {
	fields := []Option{{Label: "name", Value: p.Name()}}
	if p.DOB != "" {
		fields = append(fields, Option{Label: "dob", Value: p.DOB})
	} else if p.Age != nil {
		fields = append(fields, Option{Label: "age", Value: *p.Age})
	}
	if p.VisualID != "" {
		fields = append(fields, Option{Label: "visual_id", Value: p.VisualID})
	}
	return fields
}

func eventFields(p Person) []Option {
	fields := []Option{{Label: "name", Value: p.Name()}}
	if p.Date != "" {
		fields = append(fields, Option{Label: "date", Value: p.Date})
	}
	return fields
}
