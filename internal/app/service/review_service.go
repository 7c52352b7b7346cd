package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// ReviewService handles user reviews, whose grades feed the rating engine.
type ReviewService struct {
	repo    domain.PostRepository
	reviews domain.ReviewRepository
	logger  *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	repo domain.PostRepository,
	reviews domain.ReviewRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		repo:    repo,
		reviews: reviews,
		logger:  logger,
	}
}

// Add records a review of a live post.
func (s *ReviewService) Add(ctx context.Context, postID, userID, grade int) (*domain.Review, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("fetching post %d: %w", postID, err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}

	review := &domain.Review{
		PostID:    postID,
		UserID:    userID,
		Grade:     grade,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reviews.Add(ctx, review); err != nil {
		return nil, fmt.Errorf("adding review: %w", err)
	}

	s.logger.Debug("review added",
		zap.Int("post_id", postID),
		zap.Int("user_id", userID),
		zap.Int("grade", grade),
	)

	return review, nil
}

// ListByPost returns all reviews of a post.
func (s *ReviewService) ListByPost(ctx context.Context, postID int) ([]*domain.Review, error) {
	return s.reviews.ListByPost(ctx, postID)
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, reviewID int) error {
	return s.reviews.Delete(ctx, reviewID)
}
