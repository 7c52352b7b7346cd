package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"paste-content-service/internal/domain"
)

// Repository implements domain.PostRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL post repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new post and fills in database-generated fields.
func (r *Repository) Create(ctx context.Context, post *domain.Post) error {
	model := FromDomain(post)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("creating post: %w", err)
	}

	post.ID = model.ID
	post.CreatedAt = model.CreatedAt
	post.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a live (non-deleted) post. Returns nil if not found.
func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Post, error) {
	return r.getOne(ctx, "id = ? AND is_deleted = false", id)
}

// GetBySlug retrieves a live post by slug. Returns nil if not found.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.getOne(ctx, "slug = ? AND is_deleted = false", slug)
}

// GetByHash retrieves a live post by hash alias. Returns nil if not found.
func (r *Repository) GetByHash(ctx context.Context, hash string) (*domain.Post, error) {
	return r.getOne(ctx, "hash = ? AND is_deleted = false", hash)
}

// GetDeletedByID retrieves a soft-deleted post. Returns nil if not found.
func (r *Repository) GetDeletedByID(ctx context.Context, id int) (*domain.Post, error) {
	return r.getOne(ctx, "id = ? AND is_deleted = true", id)
}

func (r *Repository) getOne(ctx context.Context, cond string, args ...interface{}) (*domain.Post, error) {
	var model PostModel
	err := r.db.WithContext(ctx).Where(cond, args...).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found
		}

		return nil, fmt.Errorf("getting post: %w", err)
	}

	return model.ToDomain(), nil
}

// ListByUser returns a user's live posts.
func (r *Repository) ListByUser(ctx context.Context, userID int) ([]*domain.Post, error) {
	return r.list(ctx, "user_id = ? AND is_deleted = false", userID)
}

// ListDeletedByUser returns a user's soft-deleted posts.
func (r *Repository) ListDeletedByUser(ctx context.Context, userID int) ([]*domain.Post, error) {
	return r.list(ctx, "user_id = ? AND is_deleted = true", userID)
}

// ListAllByUser returns all of a user's posts regardless of state.
func (r *Repository) ListAllByUser(ctx context.Context, userID int) ([]*domain.Post, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// ListActive returns all live posts.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Post, error) {
	return r.list(ctx, "is_deleted = false")
}

func (r *Repository) list(ctx context.Context, cond string, args ...interface{}) ([]*domain.Post, error) {
	var models []PostModel
	err := r.db.WithContext(ctx).Where(cond, args...).Order("id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return toDomainSlice(models), nil
}

// Update persists hash-alias assignment and lifecycle field changes
// (soft-delete, restore).
func (r *Repository) Update(ctx context.Context, post *domain.Post) error {
	model := FromDomain(post)
	model.UpdatedAt = time.Now().UTC()

	// Select forces nil-able and zero-value fields (deleted_at, is_deleted,
	// expires_at) to be written, which Updates would otherwise skip.
	err := r.db.WithContext(ctx).Model(&PostModel{}).
		Where("id = ?", model.ID).
		Select("title", "summary", "hash", "expires_at", "is_deleted", "deleted_at", "updated_at").
		Updates(model).Error
	if err != nil {
		return fmt.Errorf("updating post: %w", err)
	}

	post.UpdatedAt = model.UpdatedAt

	return nil
}

// IncrementViews atomically adds 1 to views_count at the store level.
// Posts that vanished or were soft-deleted between selection and update are
// silently skipped.
func (r *Repository) IncrementViews(ctx context.Context, id int) error {
	err := r.db.WithContext(ctx).Model(&PostModel{}).
		Where("id = ? AND is_deleted = false", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err != nil {
		return fmt.Errorf("incrementing views: %w", err)
	}

	return nil
}

// IncrementLikes atomically adds delta (may be negative) to likes_count.
func (r *Repository) IncrementLikes(ctx context.Context, id, delta int) error {
	err := r.db.WithContext(ctx).Model(&PostModel{}).
		Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("incrementing likes: %w", err)
	}

	return nil
}

// FindExpired returns live posts with expires_at <= now.
func (r *Repository) FindExpired(ctx context.Context, now time.Time) ([]*domain.Post, error) {
	return r.list(ctx, "is_deleted = false AND expires_at IS NOT NULL AND expires_at <= ?", now)
}

// SoftDelete marks a post deleted in a single durable update.
// Re-deleting an already-deleted post matches zero rows and is a no-op.
func (r *Repository) SoftDelete(ctx context.Context, id int, now time.Time) error {
	err := r.db.WithContext(ctx).Model(&PostModel{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("soft-deleting post: %w", err)
	}

	return nil
}

// FindDeletedBefore returns soft-deleted posts with deleted_at <= cutoff.
func (r *Repository) FindDeletedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Post, error) {
	return r.list(ctx, "is_deleted = true AND deleted_at <= ?", cutoff)
}

// Purge permanently removes posts together with their likes, reviews, and
// notification ledger entries. Idempotent: already-purged ids match nothing.
func (r *Repository) Purge(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id IN ?", ids).Delete(&LikeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", ids).Delete(&ReviewModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN ?", ids).Delete(&SentNotificationModel{}).Error; err != nil {
			return err
		}

		// Only soft-deleted rows are ever purged, even if the id list is stale.
		return tx.Where("id IN ? AND is_deleted = true", ids).Delete(&PostModel{}).Error
	})
	if err != nil {
		return fmt.Errorf("purging posts: %w", err)
	}

	return nil
}

// FindPopular returns live posts with views_count >= minViews.
func (r *Repository) FindPopular(ctx context.Context, minViews int) ([]*domain.Post, error) {
	return r.list(ctx, "is_deleted = false AND views_count >= ?", minViews)
}

// MaxViews returns the highest views_count across live posts (0 if none).
func (r *Repository) MaxViews(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&PostModel{}).
		Where("is_deleted = false").
		Select("COALESCE(MAX(views_count), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("getting max views: %w", err)
	}

	return max, nil
}

// UpdateRatings writes recomputed ratings back in one transaction so the
// rating column reflects a single consistent snapshot per engine run.
func (r *Repository) UpdateRatings(ctx context.Context, ratings map[int]int) error {
	if len(ratings) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, rating := range ratings {
			err := tx.Model(&PostModel{}).
				Where("id = ?", id).
				UpdateColumn("rating", rating).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("updating ratings: %w", err)
	}

	return nil
}

// Counts returns the number of live and soft-deleted posts.
func (r *Repository) Counts(ctx context.Context) (active, deleted int64, err error) {
	if err = r.db.WithContext(ctx).Model(&PostModel{}).
		Where("is_deleted = false").Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("counting active posts: %w", err)
	}
	if err = r.db.WithContext(ctx).Model(&PostModel{}).
		Where("is_deleted = true").Count(&deleted).Error; err != nil {
		return 0, 0, fmt.Errorf("counting deleted posts: %w", err)
	}

	return active, deleted, nil
}
