package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// LifecycleService runs the background lifecycle passes: expiration
// (soft-delete of posts past their lifetime) and purge (permanent removal of
// posts soft-deleted longer than the retention window).
type LifecycleService struct {
	repo      domain.PostRepository
	ledger    domain.NotificationLedger
	cache     domain.Cache
	pub       domain.Publisher
	logger    *zap.Logger
	retention time.Duration
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(
	repo domain.PostRepository,
	ledger domain.NotificationLedger,
	cache domain.Cache,
	pub domain.Publisher,
	logger *zap.Logger,
	retention time.Duration,
) *LifecycleService {
	return &LifecycleService{
		repo:      repo,
		ledger:    ledger,
		cache:     cache,
		pub:       pub,
		logger:    logger,
		retention: retention,
	}
}

// ExpirePass soft-deletes every live post whose lifetime has elapsed. Per
// post: the expiration notification is recorded in the ledger and published
// (once, ever), then the post is marked deleted, evicted from the cache, and
// re-indexed as deleted.
//
// The pass is safe to rerun after a crash at any point: the ledger entry
// suppresses a second notification, and soft-delete is a no-op on an
// already-deleted row.
func (s *LifecycleService) ExpirePass(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("finding expired posts: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	s.logger.Info("expire pass starting", zap.Int("candidates", len(expired)))

	processed := 0
	for _, post := range expired {
		if err := s.expireOne(ctx, post, now); err != nil {
			s.logger.Error("expire failed", zap.Int("post_id", post.ID), zap.Error(err))
			continue
		}
		processed++
	}

	s.logger.Info("expire pass finished",
		zap.Int("candidates", len(expired)),
		zap.Int("processed", processed),
	)

	return nil
}

func (s *LifecycleService) expireOne(ctx context.Context, post *domain.Post, now time.Time) error {
	recorded, err := s.ledger.RecordFired(ctx, post.ID, domain.NotificationPostExpiration, now)
	if err != nil {
		return fmt.Errorf("recording expiration notification: %w", err)
	}

	if recorded {
		err := s.pub.PublishNotification(ctx, domain.EmailNotification{
			To:      post.UserID,
			Subject: domain.NotificationPostExpiration,
			Placeholders: map[string]string{
				"post_id":    strconv.Itoa(post.ID),
				"post_title": post.Title,
			},
		})
		if err != nil {
			// The ledger entry stands, so the notification is lost rather
			// than duplicated.
			s.logger.Error("expiration notification publish failed",
				zap.Int("post_id", post.ID),
				zap.Error(err),
			)
		}
	}

	if err := s.repo.SoftDelete(ctx, post.ID, now); err != nil {
		return fmt.Errorf("soft-deleting: %w", err)
	}
	post.IsDeleted = true
	post.DeletedAt = &now

	if err := s.cache.Delete(ctx, postCacheKey(post.ID)); err != nil {
		s.logger.Warn("cache evict failed", zap.Int("post_id", post.ID), zap.Error(err))
	}

	if err := s.pub.PublishIndex(ctx, domain.NewPostIndex(post, now)); err != nil {
		s.logger.Error("index publish failed", zap.Int("post_id", post.ID), zap.Error(err))
	}

	return nil
}

// PurgePass permanently removes posts that have been soft-deleted for longer
// than the retention window, together with their likes, reviews, and ledger
// entries. Rerunning the pass is harmless: already-purged ids simply no
// longer match.
func (s *LifecycleService) PurgePass(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.retention)

	candidates, err := s.repo.FindDeletedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("finding purge candidates: %w", err)
	}

	ids := make([]int, 0, len(candidates))
	for _, post := range candidates {
		if post.PurgeEligible(now, s.retention) {
			ids = append(ids, post.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.repo.Purge(ctx, ids); err != nil {
		return fmt.Errorf("purging posts: %w", err)
	}

	s.logger.Info("purge pass finished", zap.Int("purged", len(ids)))
	return nil
}
