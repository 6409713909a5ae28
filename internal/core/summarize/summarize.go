// Package summarize reduces repeated field values across a set of records
// to a de-duplicated option list, used for duplicate-candidate display and
// faceted filter values.
package summarize

import (
	"strings"

	"github.com/epitrack/weave/internal/core/model"
)

// Normalize produces the grouping key for one raw value. Values mapping to
// the same key collapse into one option; an empty key drops the value.
type Normalize func(v any) string

// ToOption builds the display pair for the first-seen representative of a
// group.
type ToOption func(v any) model.Option

// Result is a summarization outcome. Value/OK carry the single common
// value when exactly one option survives filtering, signalling the caller
// it can prefill instead of asking the operator.
type Result struct {
	Options []model.Option `json:"options"`
	Value   any            `json:"value,omitempty"`
	OK      bool           `json:"-"`
}

// Values is the grouping core shared by every specialization. Empty and
// nil values are dropped before grouping; options whose label or value
// come back empty are dropped after construction. Option order is the
// insertion order of first occurrence.
func Values[T any](values []T, normalize func(T) string, toOption func(T) model.Option) Result {
	seen := make(map[string]bool)
	var options []model.Option
	for _, v := range values {
		if isEmpty(v) {
			continue
		}
		key := normalize(v)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		opt := toOption(v)
		if opt.Label == "" || isEmpty(opt.Value) {
			continue
		}
		options = append(options, opt)
	}
	res := Result{Options: options}
	if len(options) == 1 {
		res.Value = options[0].Value
		res.OK = true
	}
	return res
}

// Records summarizes the field at path across raw records. An empty path
// selects the whole record. Missing paths yield nil and are filtered.
func Records(records []map[string]any, path string, normalize Normalize, toOption ToOption) Result {
	values := make([]any, 0, len(records))
	for _, r := range records {
		values = append(values, Lookup(r, path))
	}
	return Values(values, normalize, toOption)
}

// Lookup walks a dot-separated path into a raw record. Returns nil when
// any segment is missing or not an object.
func Lookup(record map[string]any, path string) any {
	if path == "" {
		return record
	}
	var v any = record
	for _, seg := range strings.Split(path, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[seg]
	}
	return v
}

func isEmpty(v any) bool {
	switch t := any(v).(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}
