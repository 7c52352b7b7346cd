package domain

import "time"

// NotificationType identifies an outbound notification event. At most one
// notification per (post, type) is ever emitted; the ledger enforces this.
type NotificationType string

const (
	NotificationPopularPost    NotificationType = "POPULAR_POST_NOTIFICATION"
	NotificationPostExpiration NotificationType = "POST_EXPIRATION_NOTIFICATION"
)

// SentNotification is a durable ledger entry recording that a notification
// of a given type has been emitted for a post. Entries are written once and
// removed only when the parent post is purged.
type SentNotification struct {
	ID               int              `json:"id"`
	PostID           int              `json:"post_id"`
	NotificationType NotificationType `json:"notification_type"`
	SentAt           time.Time        `json:"sent_at"`
}

// EmailNotification is the payload published to the notification dispatch
// channel. Delivery is the consumer's concern; the engine fires and forgets.
type EmailNotification struct {
	To           int               `json:"to"`
	Subject      NotificationType  `json:"subject"`
	Placeholders map[string]string `json:"placeholders"`
}

// PostIndex is the denormalized snapshot published to the search-index
// channel whenever lifecycle state changes.
type PostIndex struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Content    string     `json:"content"`
	Summary    string     `json:"summary,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	UserID     int        `json:"user_id"`
	Rating     int        `json:"rating"`
	ViewsCount int        `json:"views_count"`
	LikesCount int        `json:"likes_count"`
	IsDeleted  bool       `json:"is_deleted"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IndexedAt  time.Time  `json:"indexed_at"`
}

// NewPostIndex builds the index snapshot for a post.
func NewPostIndex(p *Post, now time.Time) PostIndex {
	return PostIndex{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Content:    p.Content,
		Summary:    p.Summary,
		Tags:       p.Tags,
		UserID:     p.UserID,
		Rating:     p.Rating,
		ViewsCount: p.ViewsCount,
		LikesCount: p.LikesCount,
		IsDeleted:  p.IsDeleted,
		ExpiresAt:  p.ExpiresAt,
		IndexedAt:  now,
	}
}
