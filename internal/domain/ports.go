package domain

import (
	"context"
	"time"
)

// PostRepository defines persistence operations for posts.
// Implementations: internal/infra/postgres/repository.go
type PostRepository interface {
	// Create persists a new post and fills in database-generated fields.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a live (non-deleted) post. Returns nil if not found.
	GetByID(ctx context.Context, id int) (*Post, error)

	// GetBySlug retrieves a live post by slug. Returns nil if not found.
	GetBySlug(ctx context.Context, slug string) (*Post, error)

	// GetByHash retrieves a live post by hash alias. Returns nil if not found.
	GetByHash(ctx context.Context, hash string) (*Post, error)

	// GetDeletedByID retrieves a soft-deleted post. Returns nil if not found.
	GetDeletedByID(ctx context.Context, id int) (*Post, error)

	// ListByUser returns a user's live posts.
	ListByUser(ctx context.Context, userID int) ([]*Post, error)

	// ListDeletedByUser returns a user's soft-deleted posts.
	ListDeletedByUser(ctx context.Context, userID int) ([]*Post, error)

	// ListAllByUser returns all of a user's posts regardless of state.
	ListAllByUser(ctx context.Context, userID int) ([]*Post, error)

	// ListActive returns all live posts.
	ListActive(ctx context.Context) ([]*Post, error)

	// Update persists lifecycle field changes (soft-delete, restore).
	Update(ctx context.Context, post *Post) error

	// IncrementViews atomically adds 1 to views_count at the store level.
	IncrementViews(ctx context.Context, id int) error

	// IncrementLikes atomically adds delta (may be negative) to likes_count.
	IncrementLikes(ctx context.Context, id, delta int) error

	// FindExpired returns live posts with expires_at <= now.
	FindExpired(ctx context.Context, now time.Time) ([]*Post, error)

	// SoftDelete marks a post deleted in a single durable update.
	// Re-deleting an already-deleted post is a no-op.
	SoftDelete(ctx context.Context, id int, now time.Time) error

	// FindDeletedBefore returns soft-deleted posts with deleted_at <= cutoff.
	FindDeletedBefore(ctx context.Context, cutoff time.Time) ([]*Post, error)

	// Purge permanently removes posts and their likes, reviews, and ledger
	// entries. Idempotent: already-purged ids are skipped.
	Purge(ctx context.Context, ids []int) error

	// FindPopular returns live posts with views_count >= minViews.
	FindPopular(ctx context.Context, minViews int) ([]*Post, error)

	// MaxViews returns the highest views_count across live posts (0 if none).
	MaxViews(ctx context.Context) (int, error)

	// UpdateRatings writes recomputed ratings back in one transaction.
	UpdateRatings(ctx context.Context, ratings map[int]int) error

	// Counts returns the number of live and soft-deleted posts.
	Counts(ctx context.Context) (active, deleted int64, err error)
}

// LikeRepository defines persistence for likes.
type LikeRepository interface {
	// Add records a like. Returns ErrAlreadyLiked on a duplicate pair.
	Add(ctx context.Context, postID, userID int, now time.Time) error

	// Remove deletes a like. Returns ErrLikeNotFound if absent.
	Remove(ctx context.Context, postID, userID int) error

	// CountByPost returns the number of likes for a post.
	CountByPost(ctx context.Context, postID int) (int, error)

	// MaxLikes returns the highest per-post like count (0 if none).
	MaxLikes(ctx context.Context) (int, error)

	// PostIDsByUser returns the posts a user has liked.
	PostIDsByUser(ctx context.Context, userID int) ([]int, error)
}

// ReviewRepository defines persistence for reviews.
type ReviewRepository interface {
	Add(ctx context.Context, review *Review) error
	ListByPost(ctx context.Context, postID int) ([]*Review, error)
	Delete(ctx context.Context, reviewID int) error

	// AverageGrade returns the mean grade for a post and whether any
	// reviews exist.
	AverageGrade(ctx context.Context, postID int) (float64, bool, error)
}

// NotificationLedger records which notifications have been emitted, enforcing
// the at-most-once guarantee per (post, type) with a hard store constraint.
// Implementations: internal/infra/postgres/ledger.go
type NotificationLedger interface {
	// HasFired reports whether a notification was already recorded.
	HasFired(ctx context.Context, postID int, t NotificationType) (bool, error)

	// RecordFired inserts the ledger entry. Returns false when another pass
	// already recorded the same (post, type) pair; callers must then
	// suppress the outbound event and continue.
	RecordFired(ctx context.Context, postID int, t NotificationType, when time.Time) (bool, error)

	// FiredPostIDs returns the set of posts already notified for a type.
	FiredPostIDs(ctx context.Context, t NotificationType) (map[int]struct{}, error)
}

// Cache defines TTL-bound caching of rendered post snapshots.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Exists reports whether the key is present without touching its TTL.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}

// ViewLedger is the ephemeral dedup set for view counting, keyed by
// (visitor identity, post id) with a TTL window.
// Implementations: internal/infra/redis/view_ledger.go
type ViewLedger interface {
	// Seen reports whether this visitor's view of the post was already
	// counted within the dedup window.
	Seen(ctx context.Context, visitorID string, postID int) (bool, error)

	// MarkCounted records the view for the dedup window.
	MarkCounted(ctx context.Context, visitorID string, postID int, ttl time.Duration) error
}

// Publisher is the asynchronous, at-least-once outbound channel for
// notification dispatch and search-index updates.
// Implementations: internal/infra/redis/publisher.go
type Publisher interface {
	PublishNotification(ctx context.Context, n EmailNotification) error
	PublishIndex(ctx context.Context, idx PostIndex) error
}

// HashClient is the synchronous client for the hash service, invoked from
// request handlers only (never from background passes).
// Implementations: internal/infra/hashclient/client.go
type HashClient interface {
	// GenerateHash creates the external hash alias for a new post.
	GenerateHash(ctx context.Context, postID int) (string, error)

	// PostIDByHash resolves a hash alias to a post id.
	PostIDByHash(ctx context.Context, hash string) (int, error)

	// DeleteHash marks a post's hash alias as deleted.
	DeleteHash(ctx context.Context, postID int) error

	// RestoreHashes unmarks hash aliases for restored posts.
	RestoreHashes(ctx context.Context, postIDs []int) error
}
