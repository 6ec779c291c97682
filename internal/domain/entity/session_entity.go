package entity

import "time"

// Session is the single active login of a user. Tokens carry SessionID and
// are only honoured while it matches the stored session.
type Session struct {
	UserID    string
	SessionID string
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
