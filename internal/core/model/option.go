package model

// Option is one distinct summarized value: the label shown to the
// operator and the raw value behind it.
type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}
