package domain

import "time"

// Review is a user-submitted grade for a post. The average grade per post
// feeds the rating engine.
type Review struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Grade     int       `json:"grade"`
	CreatedAt time.Time `json:"created_at"`
}

// Like records that a user liked a post. At most one like per
// (post, user) pair.
type Like struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
