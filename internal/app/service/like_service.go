package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// LikeService handles likes. The per-post counter lives on the posts row and
// is kept in step with the likes table by atomic increments.
type LikeService struct {
	repo   domain.PostRepository
	likes  domain.LikeRepository
	cache  domain.Cache
	logger *zap.Logger
}

// NewLikeService creates a new LikeService.
func NewLikeService(
	repo domain.PostRepository,
	likes domain.LikeRepository,
	cache domain.Cache,
	logger *zap.Logger,
) *LikeService {
	return &LikeService{
		repo:   repo,
		likes:  likes,
		cache:  cache,
		logger: logger,
	}
}

// Like records a like by the user. Returns ErrNotFound for a missing post
// and ErrAlreadyLiked for a duplicate.
func (s *LikeService) Like(ctx context.Context, postID, userID int) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("fetching post %d: %w", postID, err)
	}
	if post == nil {
		return domain.ErrNotFound
	}

	if err := s.likes.Add(ctx, postID, userID, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.repo.IncrementLikes(ctx, postID, 1); err != nil {
		return fmt.Errorf("incrementing likes for post %d: %w", postID, err)
	}

	s.evict(ctx, postID)
	return nil
}

// Unlike removes the user's like. Returns ErrLikeNotFound if absent.
func (s *LikeService) Unlike(ctx context.Context, postID, userID int) error {
	if err := s.likes.Remove(ctx, postID, userID); err != nil {
		return err
	}

	if err := s.repo.IncrementLikes(ctx, postID, -1); err != nil {
		return fmt.Errorf("decrementing likes for post %d: %w", postID, err)
	}

	s.evict(ctx, postID)
	return nil
}

// LikedPostIDs returns the posts a user has liked.
func (s *LikeService) LikedPostIDs(ctx context.Context, userID int) ([]int, error) {
	return s.likes.PostIDsByUser(ctx, userID)
}

// evict drops the cached snapshot so readers see the fresh counter.
func (s *LikeService) evict(ctx context.Context, postID int) {
	if err := s.cache.Delete(ctx, postCacheKey(postID)); err != nil {
		s.logger.Warn("cache evict failed", zap.Int("post_id", postID), zap.Error(err))
	}
}
