package models

import "time"

// WeightUnit is the measurement unit the workout was recorded in.
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "kg"
	WeightUnitPounds    WeightUnit = "lb"
)

// OutboxEntry is an immutable-once-created snapshot of everything needed to
// retry a submission without the draft: the content, the owner, and a
// deduplication token generated once per submit and never regenerated on
// retry. At most one entry exists at any time; putting a new one overwrites
// any previous one unconditionally.
type OutboxEntry struct {
	Notes                 string      `json:"notes"`
	Title                 string      `json:"title"                     validate:"required"`
	ImageURL              string      `json:"image_url,omitempty"`
	WeightUnit            WeightUnit  `json:"weight_unit"               validate:"required,oneof=kg lb"`
	UserID                string      `json:"user_id"                   validate:"required"`
	DedupToken            string      `json:"dedup_token"               validate:"required"`
	RoutineID             string      `json:"routine_id,omitempty"`
	DurationSeconds       int         `json:"duration_seconds,omitempty"`
	Description           string      `json:"description,omitempty"`
	Exercises             []*Exercise `json:"exercises"`
	IsStructuredMode      bool        `json:"is_structured_mode"`
	PerformedAt           time.Time   `json:"performed_at"`
	TimezoneOffsetMinutes int         `json:"timezone_offset_minutes"`
}

// ToDraft folds the entry's user content back into a draft. Used when a
// terminal submission failure demotes the queued content so it is never
// silently lost.
func (e *OutboxEntry) ToDraft() *Draft {
	return &Draft{
		Notes:            e.Notes,
		Title:            e.Title,
		Exercises:        CloneExercises(e.Exercises),
		IsStructuredMode: e.IsStructuredMode,
		RoutineID:        e.RoutineID,
	}
}
