package types

import (
	"fmt"
	"sort"
)

// SweepConfig is one participant of a sweep: parameter overrides keyed by
// their yaml name. It is read once and never mutated.
type SweepConfig struct {
	Index     int               `yaml:"index" json:"index"`
	Overrides map[string]string `yaml:"overrides" json:"overrides"`
}

// Keys returns the override names in sorted order.
func (c SweepConfig) Keys() []string {
	keys := make([]string, 0, len(c.Overrides))
	for k := range c.Overrides {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// String renders the overrides as "k=v k=v" in key order.
func (c SweepConfig) String() string {
	out := ""
	for i, k := range c.Keys() {
		if i > 0 {
			out += " "
		}

		out += fmt.Sprintf("%s=%s", k, c.Overrides[k])
	}

	return out
}

// SweepResult is produced once per finished sweep participant.
// Err is nil for a successful run.
type SweepResult struct {
	Config          SweepConfig `yaml:"config" json:"config"`
	DurationSeconds float64     `yaml:"duration_seconds" json:"duration_seconds"`
	Err             error       `yaml:"-" json:"-"`
}

// Succeeded reports whether the participant finished without error.
func (r SweepResult) Succeeded() bool {
	return r.Err == nil
}
