package postgres

import (
	"time"

	"github.com/lib/pq"

	"paste-content-service/internal/domain"
)

// PostModel is the GORM model for the posts table.
type PostModel struct {
	ID      int            `gorm:"primaryKey;autoIncrement"`
	Title   string         `gorm:"type:varchar(200);not null"`
	Slug    string         `gorm:"type:varchar(150);not null;uniqueIndex"`
	Hash    string         `gorm:"type:varchar(64);index"`
	Content string         `gorm:"type:text;not null"`
	Summary string         `gorm:"type:text"`
	Tags    pq.StringArray `gorm:"type:text[]"`
	UserID  int            `gorm:"not null;index"`

	// Counters are only ever changed through atomic store-level increments.
	ViewsCount int `gorm:"not null;default:0"`
	LikesCount int `gorm:"not null;default:0"`
	Rating     int `gorm:"not null;default:0"`

	ExpiresAt *time.Time `gorm:"index"`
	IsDeleted bool       `gorm:"not null;default:false;index"`
	DeletedAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for PostModel.
func (PostModel) TableName() string {
	return "posts"
}

// ToDomain converts PostModel to domain.Post.
func (m *PostModel) ToDomain() *domain.Post {
	return &domain.Post{
		ID:         m.ID,
		Title:      m.Title,
		Slug:       m.Slug,
		Hash:       m.Hash,
		Content:    m.Content,
		Summary:    m.Summary,
		Tags:       m.Tags,
		UserID:     m.UserID,
		ViewsCount: m.ViewsCount,
		LikesCount: m.LikesCount,
		Rating:     m.Rating,
		ExpiresAt:  m.ExpiresAt,
		IsDeleted:  m.IsDeleted,
		DeletedAt:  m.DeletedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain creates a PostModel from domain.Post.
func FromDomain(p *domain.Post) *PostModel {
	return &PostModel{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Hash:       p.Hash,
		Content:    p.Content,
		Summary:    p.Summary,
		Tags:       p.Tags,
		UserID:     p.UserID,
		ViewsCount: p.ViewsCount,
		LikesCount: p.LikesCount,
		Rating:     p.Rating,
		ExpiresAt:  p.ExpiresAt,
		IsDeleted:  p.IsDeleted,
		DeletedAt:  p.DeletedAt,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// toDomainSlice converts a slice of models to domain posts.
func toDomainSlice(models []PostModel) []*domain.Post {
	posts := make([]*domain.Post, len(models))
	for i := range models {
		posts[i] = models[i].ToDomain()
	}

	return posts
}

// LikeModel is the GORM model for the post_likes table.
type LikeModel struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	PostID    int       `gorm:"not null;index:idx_post_user_like,unique"`
	UserID    int       `gorm:"not null;index:idx_post_user_like,unique"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for LikeModel.
func (LikeModel) TableName() string {
	return "post_likes"
}

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	PostID    int       `gorm:"not null;index"`
	UserID    int       `gorm:"not null"`
	Grade     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for ReviewModel.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts ReviewModel to domain.Review.
func (m *ReviewModel) ToDomain() *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		PostID:    m.PostID,
		UserID:    m.UserID,
		Grade:     m.Grade,
		CreatedAt: m.CreatedAt,
	}
}

// SentNotificationModel is the GORM model for the sent_notifications table.
// The unique (post_id, notification_type) index is the hard constraint behind
// the at-most-once notification guarantee.
type SentNotificationModel struct {
	ID               int       `gorm:"primaryKey;autoIncrement"`
	PostID           int       `gorm:"not null;index:idx_post_notification,unique"`
	NotificationType string    `gorm:"type:varchar(64);not null;index:idx_post_notification,unique"`
	SentAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for SentNotificationModel.
func (SentNotificationModel) TableName() string {
	return "sent_notifications"
}
