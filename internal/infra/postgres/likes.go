package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paste-content-service/internal/domain"
)

// LikeRepository implements domain.LikeRepository using PostgreSQL.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new PostgreSQL like repository.
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Add records a like. The unique (post_id, user_id) index rejects duplicates;
// a conflict surfaces as domain.ErrAlreadyLiked.
func (r *LikeRepository) Add(ctx context.Context, postID, userID int, now time.Time) error {
	model := &LikeModel{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: now,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrAlreadyLiked
		}

		return fmt.Errorf("adding like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyLiked
	}

	return nil
}

// Remove deletes a like.
func (r *LikeRepository) Remove(ctx context.Context, postID, userID int) error {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&LikeModel{})
	if result.Error != nil {
		return fmt.Errorf("removing like: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrLikeNotFound
	}

	return nil
}

// CountByPost returns the number of likes for a post.
func (r *LikeRepository) CountByPost(ctx context.Context, postID int) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LikeModel{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}

	return int(count), nil
}

// MaxLikes returns the highest per-post like count among live posts (0 if none).
func (r *LikeRepository) MaxLikes(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(like_count), 0)
		FROM (
			SELECT COUNT(l.id) AS like_count
			FROM post_likes l
			JOIN posts p ON p.id = l.post_id AND p.is_deleted = false
			GROUP BY l.post_id
		) AS like_counts
	`).Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("getting max likes: %w", err)
	}

	return max, nil
}

// PostIDsByUser returns the posts a user has liked, newest first.
func (r *LikeRepository) PostIDsByUser(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&LikeModel{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing liked posts: %w", err)
	}

	return ids, nil
}

// isUniqueViolation reports whether the error is a unique-constraint
// violation. Matching the message keeps this portable across the pq and pgx
// driver error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}
