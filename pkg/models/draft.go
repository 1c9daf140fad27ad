// Package models defines the core domain models for the workout submission pipeline.
package models

import "strings"

// Draft is the user's in-progress, not-yet-submitted workout description.
// It is mutable and overwritten on every edit; the outbox entry is the
// immutable counterpart created when the user submits.
type Draft struct {
	Notes            string      `json:"notes"`
	Title            string      `json:"title"`
	Exercises        []*Exercise `json:"exercises"`
	IsStructuredMode bool        `json:"is_structured_mode"`
	RoutineID        string      `json:"routine_id,omitempty"`
}

// IsEmpty reports whether the draft holds no user content: notes, title and
// the structured exercise list are all blank and no routine is selected.
// Emptiness is recomputed on every call, never cached, so a draft that was
// edited down to nothing is deletable again.
func (d *Draft) IsEmpty() bool {
	if d == nil {
		return true
	}

	if strings.TrimSpace(d.Notes) != "" || strings.TrimSpace(d.Title) != "" {
		return false
	}

	if d.RoutineID != "" {
		return false
	}

	for _, exercise := range d.Exercises {
		if strings.TrimSpace(exercise.Name) != "" || len(exercise.Sets) > 0 {
			return false
		}
	}

	return true
}
