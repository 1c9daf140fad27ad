// Package events defines the diagnostic event types emitted by the
// submission pipeline. Emission is fire-and-forget: a lost event never
// changes a pipeline outcome.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries all submission lifecycle events.
const Topic = "liftbook.sync.events"

const EventKeyMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Submission lifecycle events.
	SubmissionQueuedEvent     EventType = "submission.queued"
	SubmissionProcessingEvent EventType = "submission.processing"
	SubmissionSucceededEvent  EventType = "submission.succeeded"
	SubmissionOfflineEvent    EventType = "submission.offline"
	SubmissionFailedEvent     EventType = "submission.failed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent creates the shared envelope for a submission event.
func NewBaseEvent(eventType EventType, userID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
	}
}

// SubmissionQueued is published when a submission lands in the outbox.
// Replaced is true when the new entry overwrote a still-pending one.
type SubmissionQueued struct {
	BaseEvent

	DedupToken string `json:"dedup_token"`
	Replaced   bool   `json:"replaced"`
}

func (e SubmissionQueued) GetType() EventType {
	return SubmissionQueuedEvent
}

// SubmissionProcessing is published when the processor picks up the entry.
type SubmissionProcessing struct {
	BaseEvent

	DedupToken string `json:"dedup_token"`
}

func (e SubmissionProcessing) GetType() EventType {
	return SubmissionProcessingEvent
}

// SubmissionSucceeded is published once the backend confirms the workout.
type SubmissionSucceeded struct {
	BaseEvent

	DedupToken string `json:"dedup_token"`
	WorkoutID  string `json:"workout_id"`
}

func (e SubmissionSucceeded) GetType() EventType {
	return SubmissionSucceededEvent
}

// SubmissionOffline is published when a flush attempt failed on connectivity
// and the entry was left in place for a later retry.
type SubmissionOffline struct {
	BaseEvent

	DedupToken string `json:"dedup_token"`
	Reason     string `json:"reason"`
}

func (e SubmissionOffline) GetType() EventType {
	return SubmissionOfflineEvent
}

// SubmissionFailed is published when a flush attempt hit a terminal error and
// the entry content was demoted back into the draft.
type SubmissionFailed struct {
	BaseEvent

	DedupToken string `json:"dedup_token"`
	Error      string `json:"error"`
}

func (e SubmissionFailed) GetType() EventType {
	return SubmissionFailedEvent
}
