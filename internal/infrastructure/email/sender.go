// Package email provides outbound email delivery behind a small interface so
// the newsletter pipeline can run against Resend in production and a no-op
// sender in development and tests.
package email

import "context"

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}
