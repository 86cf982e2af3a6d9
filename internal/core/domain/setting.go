package domain

import (
	"errors"
	"time"
)

var ErrSettingNotFound = errors.New("setting not found")

// Setting is a site-wide key/value configuration entry (site title, social
// links, donation account details and the like).
type Setting struct {
	Key       string    `json:"key" bson:"_id"`
	Value     string    `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}
