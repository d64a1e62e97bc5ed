package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the server.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// LoginEvent is one successful login. Rows are only ever appended or removed
// together with their user.
type LoginEvent struct {
	ID        int64
	UserID    int64
	LoginTime time.Time
}
