package domain

import (
	"errors"
	"time"
)

// EventStatus represents the lifecycle state of a community event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
	EventCancelled EventStatus = "cancelled"
	EventCompleted EventStatus = "completed"
)

// validEventTransitions defines the allowed state machine transitions.
var validEventTransitions = map[EventStatus][]EventStatus{
	EventDraft:     {EventPublished, EventCancelled},
	EventPublished: {EventCompleted, EventCancelled},
}

var ErrEventNotFound = errors.New("event not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrInvalidEventWindow = errors.New("invalid event window")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range validEventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventDraft, EventPublished, EventCancelled, EventCompleted:
		return true
	}
	return false
}

// Event is a community event shown on the public site once published.
type Event struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Title       string      `json:"title" bson:"title"`
	Slug        string      `json:"slug" bson:"slug"`
	Description string      `json:"description" bson:"description"` // markdown
	Location    string      `json:"location,omitempty" bson:"location,omitempty"`
	StartsAt    time.Time   `json:"startsAt" bson:"starts_at"`
	EndsAt      time.Time   `json:"endsAt" bson:"ends_at"`
	Capacity    int         `json:"capacity,omitempty" bson:"capacity,omitempty"`
	Status      EventStatus `json:"status" bson:"status"`
	Notes       string      `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updated_at"`
}
