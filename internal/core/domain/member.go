package domain

import (
	"errors"
	"time"
)

// MemberStatus represents the membership state of a community member.
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

var ErrMemberNotFound = errors.New("community member not found")
var ErrMemberExists = errors.New("community member already registered")

func ValidMemberStatus(s MemberStatus) bool {
	switch s {
	case MemberPending, MemberActive, MemberInactive:
		return true
	}
	return false
}

// CommunityMember is a registration from the public membership form.
type CommunityMember struct {
	ID         string       `json:"id" bson:"_id,omitempty"`
	Name       string       `json:"name" bson:"name"`
	Email      string       `json:"email" bson:"email"`
	Phone      string       `json:"phone,omitempty" bson:"phone,omitempty"`
	City       string       `json:"city,omitempty" bson:"city,omitempty"`
	Occupation string       `json:"occupation,omitempty" bson:"occupation,omitempty"`
	Motivation string       `json:"motivation,omitempty" bson:"motivation,omitempty"`
	Status     MemberStatus `json:"status" bson:"status"`
	Notes      string       `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updatedAt" bson:"updated_at"`
}
