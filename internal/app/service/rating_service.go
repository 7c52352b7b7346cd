package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// RatingService recomputes the derived rating of every live post from its
// engagement counters and review grades.
type RatingService struct {
	repo    domain.PostRepository
	likes   domain.LikeRepository
	reviews domain.ReviewRepository
	logger  *zap.Logger
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	repo domain.PostRepository,
	likes domain.LikeRepository,
	reviews domain.ReviewRepository,
	logger *zap.Logger,
) *RatingService {
	return &RatingService{
		repo:    repo,
		likes:   likes,
		reviews: reviews,
		logger:  logger,
	}
}

// Pass recomputes ratings for all live posts against the run-wide like and
// view maxima and writes the changed ones back in a single transaction.
func (s *RatingService) Pass(ctx context.Context) error {
	posts, err := s.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listing live posts: %w", err)
	}
	if len(posts) == 0 {
		return nil
	}

	maxViews, err := s.repo.MaxViews(ctx)
	if err != nil {
		return fmt.Errorf("fetching max views: %w", err)
	}
	maxLikes, err := s.likes.MaxLikes(ctx)
	if err != nil {
		return fmt.Errorf("fetching max likes: %w", err)
	}

	changed := make(map[int]int)
	for _, post := range posts {
		grade := domain.DefaultGrade
		avg, has, err := s.reviews.AverageGrade(ctx, post.ID)
		if err != nil {
			s.logger.Error("average grade failed", zap.Int("post_id", post.ID), zap.Error(err))
			continue
		}
		if has {
			grade = avg
		}

		rating := domain.ComputeRating(post.LikesCount, post.ViewsCount, maxLikes, maxViews, grade)
		if rating != post.Rating {
			changed[post.ID] = rating
		}
	}

	if len(changed) > 0 {
		if err := s.repo.UpdateRatings(ctx, changed); err != nil {
			return fmt.Errorf("writing ratings: %w", err)
		}
	}

	s.logger.Info("rating pass finished",
		zap.Int("posts", len(posts)),
		zap.Int("updated", len(changed)),
	)

	return nil
}
