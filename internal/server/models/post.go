package models

import "time"

type Post struct {
	ID        int64
	OwnerID   int64
	Title     string
	Content   string
	CreatedAt time.Time
}

// Comment belongs to a post and its author. CreatedAt is refreshed on edit.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Content   string
	CreatedAt time.Time
}
