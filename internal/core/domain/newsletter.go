package domain

import (
	"errors"
	"time"
)

// SubscriberStatus represents the opt-in state of a newsletter subscriber.
type SubscriberStatus string

const (
	Subscribed   SubscriberStatus = "subscribed"
	Unsubscribed SubscriberStatus = "unsubscribed"
)

var ErrSubscriberNotFound = errors.New("subscriber not found")
var ErrAlreadySubscribed = errors.New("email already subscribed")

func ValidSubscriberStatus(s SubscriberStatus) bool {
	return s == Subscribed || s == Unsubscribed
}

// Subscriber is a newsletter recipient. UnsubscribeToken is the opaque token
// embedded in unsubscribe links; it never changes for the life of the record.
type Subscriber struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	Email            string           `json:"email" bson:"email"`
	Name             string           `json:"name,omitempty" bson:"name,omitempty"`
	Status           SubscriberStatus `json:"status" bson:"status"`
	UnsubscribeToken string           `json:"-" bson:"unsubscribe_token"`
	UnsubscribedAt   *time.Time       `json:"unsubscribedAt,omitempty" bson:"unsubscribed_at,omitempty"`
	CreatedAt        time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updated_at"`
}

// CampaignStatus represents the delivery state of a newsletter campaign.
type CampaignStatus string

const (
	CampaignDraft   CampaignStatus = "draft"
	CampaignSending CampaignStatus = "sending"
	CampaignSent    CampaignStatus = "sent"
)

var ErrCampaignNotFound = errors.New("campaign not found")
var ErrCampaignNotDraft = errors.New("campaign has already been sent")

// Campaign is a newsletter issue. Body is authored in markdown and rendered
// to HTML once at send time.
type Campaign struct {
	ID           string         `json:"id" bson:"_id,omitempty"`
	Subject      string         `json:"subject" bson:"subject"`
	BodyMarkdown string         `json:"bodyMarkdown" bson:"body_markdown"`
	BodyHTML     string         `json:"bodyHtml,omitempty" bson:"body_html,omitempty"`
	Status       CampaignStatus `json:"status" bson:"status"`
	Recipients   int64          `json:"recipients" bson:"recipients"`
	SentCount    int64          `json:"sentCount" bson:"sent_count"`
	SentAt       *time.Time     `json:"sentAt,omitempty" bson:"sent_at,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt" bson:"updated_at"`
}
