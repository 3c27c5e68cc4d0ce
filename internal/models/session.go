package models

import (
	"time"
)

// Session marks an active login. The sessions table carries a unique
// constraint on user_id, so a user holds at most one at a time.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}
