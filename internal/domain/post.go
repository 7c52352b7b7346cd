// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"errors"
	"time"
)

// Sentinel errors surfaced by repositories and services. The transport layer
// maps these to HTTP status codes.
var (
	ErrNotFound     = errors.New("post not found")
	ErrConflict     = errors.New("conflicting lifecycle state")
	ErrAlreadyLiked = errors.New("user already liked this post")
	ErrLikeNotFound = errors.New("like not found")
)

// LifecycleState is the tagged deletion state of a post.
// Legal transitions: Active -> SoftDeleted -> Purged, SoftDeleted -> Active
// (restore). A purged post no longer exists as a row, so the state is only
// ever observed on the way out.
type LifecycleState string

const (
	StateActive      LifecycleState = "active"
	StateSoftDeleted LifecycleState = "soft_deleted"
	StatePurged      LifecycleState = "purged"
)

// Post is the core content entity. viewsCount and likesCount are maintained
// by atomic store-level increments; Rating is a derived value recomputed by
// the rating engine and not authoritative between runs.
type Post struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Hash    string   `json:"hash,omitempty"`
	Content string   `json:"content"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	UserID  int      `json:"user_id"`

	ViewsCount int `json:"views_count"`
	LikesCount int `json:"likes_count"`
	Rating     int `json:"rating"`

	// ExpiresAt is nil for posts that never expire.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State reports the post's current lifecycle state.
func (p *Post) State() LifecycleState {
	if p.IsDeleted {
		return StateSoftDeleted
	}
	return StateActive
}

// IsExpired reports whether the post's lifetime has elapsed.
// Never-expiring posts (nil ExpiresAt) are never expired.
func (p *Post) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}

// SoftDelete transitions Active -> SoftDeleted.
// Returns ErrConflict if the post is already soft-deleted.
func (p *Post) SoftDelete(now time.Time) error {
	if p.IsDeleted {
		return ErrConflict
	}
	p.IsDeleted = true
	p.DeletedAt = &now
	return nil
}

// Restore transitions SoftDeleted -> Active.
//
// With a nil days argument the remaining lifetime is preserved:
// newExpiresAt = now + (oldExpiresAt - oldDeletedAt). A post that never
// expired restores as never-expiring. With an explicit days argument the
// post gets a fresh lifetime of that many days from now.
//
// Returns ErrConflict unless the post is currently soft-deleted.
func (p *Post) Restore(now time.Time, days *int) error {
	if !p.IsDeleted || p.DeletedAt == nil {
		return ErrConflict
	}

	switch {
	case days != nil:
		exp := now.AddDate(0, 0, *days)
		p.ExpiresAt = &exp
	case p.ExpiresAt != nil:
		exp := now.Add(p.ExpiresAt.Sub(*p.DeletedAt))
		p.ExpiresAt = &exp
	}

	p.IsDeleted = false
	p.DeletedAt = nil
	return nil
}

// PurgeEligible reports whether the post may be permanently removed:
// it must be soft-deleted and past the retention window.
func (p *Post) PurgeEligible(now time.Time, retention time.Duration) bool {
	if !p.IsDeleted || p.DeletedAt == nil {
		return false
	}
	return !p.DeletedAt.After(now.Add(-retention))
}
