package summarize

import (
	"fmt"
	"strings"
	"time"

	"github.com/epitrack/weave/internal/core/model"
)

// Strings groups case-insensitively, so "Jane" and "jane" collapse into
// one option labelled by the first-seen spelling.
func Strings(records []map[string]any, path string) Result {
	return Records(records, path,
		func(v any) string { return strings.ToLower(strings.TrimSpace(stringify(v))) },
		func(v any) model.Option { return model.Option{Label: stringify(v), Value: v} },
	)
}

// Dates groups on the calendar day.
func Dates(records []map[string]any, path string) Result {
	return Records(records, path,
		func(v any) string { return dateString(v) },
		func(v any) model.Option { return model.Option{Label: dateString(v), Value: v} },
	)
}

// Bools groups on the boolean value itself.
func Bools(records []map[string]any, path string) Result {
	return Records(records, path,
		func(v any) string {
			b, ok := v.(bool)
			if !ok {
				return ""
			}
			return fmt.Sprintf("%t", b)
		},
		func(v any) model.Option {
			label := "No"
			if b, _ := v.(bool); b {
				label = "Yes"
			}
			return model.Option{Label: label, Value: v}
		},
	)
}

// addressParts are the sub-fields that make an address distinct.
var addressParts = []string{"address_line", "city", "zip_code", "country"}

// Addresses groups address objects on a composite of their parts.
func Addresses(records []map[string]any, path string) Result {
	return Records(records, path,
		func(v any) string { return strings.ToLower(addressLabel(v)) },
		func(v any) model.Option { return model.Option{Label: addressLabel(v), Value: v} },
	)
}

func addressLabel(v any) string {
	addr, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, field := range addressParts {
		if s := stringify(addr[field]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// AgeDOB summarizes the date-of-birth-or-age composite across records: the
// dob verbatim when present, otherwise the rendered age. Records where both
// are empty contribute nothing.
func AgeDOB(records []map[string]any, dobPath, agePath string) Result {
	return Records(records, "",
		func(v any) string {
			r, _ := v.(map[string]any)
			return ageDOBString(Lookup(r, dobPath), Lookup(r, agePath))
		},
		func(v any) model.Option {
			r, _ := v.(map[string]any)
			s := ageDOBString(Lookup(r, dobPath), Lookup(r, agePath))
			return model.Option{Label: s, Value: s}
		},
	)
}

// AgeString renders an age for display. Months take priority over years;
// a nil or zero age renders empty.
func AgeString(age *model.Age, yearsLabel, monthsLabel string) string {
	if age == nil {
		return ""
	}
	if age.Months > 0 {
		return fmt.Sprintf("%d %s", age.Months, monthsLabel)
	}
	if age.Years > 0 {
		return fmt.Sprintf("%d %s", age.Years, yearsLabel)
	}
	return ""
}

// PersonAgeDOB is the typed composite used when rendering duplicate
// candidates.
func PersonAgeDOB(p model.Person) string {
	if p.DOB != "" {
		return p.DOB
	}
	return AgeString(p.Age, "years", "months")
}

func ageDOBString(dob, age any) string {
	return strings.TrimSpace(stringify(dob) + " " + AgeString(toAge(age), "years", "months"))
}

func toAge(v any) *model.Age {
	switch t := v.(type) {
	case *model.Age:
		return t
	case model.Age:
		return &t
	case map[string]any:
		return &model.Age{Years: toInt(t["years"]), Months: toInt(t["months"])}
	}
	return nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func dateString(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("2006-01-02")
	case string:
		return t
	}
	return ""
}
