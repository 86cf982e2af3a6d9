package domain

import (
	"errors"
	"time"
)

// VolunteerStatus represents the vetting state of a volunteer application.
type VolunteerStatus string

const (
	VolunteerPending  VolunteerStatus = "pending"
	VolunteerApproved VolunteerStatus = "approved"
	VolunteerActive   VolunteerStatus = "active"
	VolunteerInactive VolunteerStatus = "inactive"
)

var ErrVolunteerNotFound = errors.New("volunteer not found")

func ValidVolunteerStatus(s VolunteerStatus) bool {
	switch s {
	case VolunteerPending, VolunteerApproved, VolunteerActive, VolunteerInactive:
		return true
	}
	return false
}

// Volunteer is a signup from the public volunteer form.
type Volunteer struct {
	ID           string          `json:"id" bson:"_id,omitempty"`
	Name         string          `json:"name" bson:"name"`
	Email        string          `json:"email" bson:"email"`
	Phone        string          `json:"phone,omitempty" bson:"phone,omitempty"`
	City         string          `json:"city,omitempty" bson:"city,omitempty"`
	Interests    []string        `json:"interests,omitempty" bson:"interests,omitempty"`
	Availability string          `json:"availability,omitempty" bson:"availability,omitempty"`
	Status       VolunteerStatus `json:"status" bson:"status"`
	Notes        string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" bson:"updated_at"`
}
