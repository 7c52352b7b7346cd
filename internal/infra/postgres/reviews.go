package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"paste-content-service/internal/domain"
)

// ReviewRepository implements domain.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Add persists a new review and fills in database-generated fields.
func (r *ReviewRepository) Add(ctx context.Context, review *domain.Review) error {
	model := &ReviewModel{
		PostID:    review.PostID,
		UserID:    review.UserID,
		Grade:     review.Grade,
		CreatedAt: review.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("adding review: %w", err)
	}

	review.ID = model.ID

	return nil
}

// ListByPost returns all reviews for a post.
func (r *ReviewRepository) ListByPost(ctx context.Context, postID int) ([]*domain.Review, error) {
	var models []ReviewModel
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	reviews := make([]*domain.Review, len(models))
	for i := range models {
		reviews[i] = models[i].ToDomain()
	}

	return reviews, nil
}

// Delete removes a review by id.
func (r *ReviewRepository) Delete(ctx context.Context, reviewID int) error {
	result := r.db.WithContext(ctx).Where("id = ?", reviewID).Delete(&ReviewModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// AverageGrade returns the mean grade for a post and whether any reviews exist.
func (r *ReviewRepository) AverageGrade(ctx context.Context, postID int) (float64, bool, error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("post_id = ?", postID).
		Select("AVG(grade) AS avg, COUNT(*) AS count").
		Scan(&row).Error
	if err != nil {
		return 0, false, fmt.Errorf("averaging grades: %w", err)
	}
	if row.Count == 0 || row.Avg == nil {
		return 0, false, nil
	}

	return *row.Avg, true, nil
}
