package domain

import (
	"errors"
	"time"
)

// ContactStatus represents the triage state of a contact-form submission.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

var ErrContactNotFound = errors.New("contact not found")

// ValidContactStatus reports whether s is a member of the enumeration.
func ValidContactStatus(s ContactStatus) bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	Name      string        `json:"name" bson:"name"`
	Email     string        `json:"email" bson:"email"`
	Phone     string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string        `json:"subject" bson:"subject"`
	Message   string        `json:"message" bson:"message"`
	Status    ContactStatus `json:"status" bson:"status"`
	Notes     string        `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updated_at"`
}
