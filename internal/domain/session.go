package domain

import "time"

// Session binds an account to a browser session until it expires or is
// terminated.
type Session struct {
	ID        string
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
