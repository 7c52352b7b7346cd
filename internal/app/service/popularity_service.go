package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// PopularityService detects posts that crossed the popularity threshold,
// primes the snapshot cache for them, and emits the popular-post
// notification at most once per post.
type PopularityService struct {
	repo      domain.PostRepository
	ledger    domain.NotificationLedger
	cache     domain.Cache
	pub       domain.Publisher
	logger    *zap.Logger
	threshold int
	postTTL   time.Duration
}

// NewPopularityService creates a new PopularityService.
func NewPopularityService(
	repo domain.PostRepository,
	ledger domain.NotificationLedger,
	cache domain.Cache,
	pub domain.Publisher,
	logger *zap.Logger,
	threshold int,
	postTTL time.Duration,
) *PopularityService {
	return &PopularityService{
		repo:      repo,
		ledger:    ledger,
		cache:     cache,
		pub:       pub,
		logger:    logger,
		threshold: threshold,
		postTTL:   postTTL,
	}
}

// Pass scans live posts at or above the view threshold. For each one it
// primes the snapshot cache (skipping keys that are already present, so an
// existing entry keeps its TTL) and then records and publishes the
// popular-post notification unless the ledger shows it already fired.
func (s *PopularityService) Pass(ctx context.Context) error {
	popular, err := s.repo.FindPopular(ctx, s.threshold)
	if err != nil {
		return fmt.Errorf("finding popular posts: %w", err)
	}
	if len(popular) == 0 {
		return nil
	}

	// Cheap pre-filter; the ledger insert remains the authority.
	fired, err := s.ledger.FiredPostIDs(ctx, domain.NotificationPopularPost)
	if err != nil {
		return fmt.Errorf("loading fired notifications: %w", err)
	}

	notified := 0
	for _, post := range popular {
		s.primeCache(ctx, post)

		if _, ok := fired[post.ID]; ok {
			continue
		}

		ok, err := s.notifyOnce(ctx, post)
		if err != nil {
			s.logger.Error("popularity notification failed",
				zap.Int("post_id", post.ID),
				zap.Error(err),
			)
			continue
		}
		if ok {
			notified++
		}
	}

	s.logger.Info("popularity pass finished",
		zap.Int("popular", len(popular)),
		zap.Int("notified", notified),
	)

	return nil
}

// primeCache writes the post snapshot unless a cache entry already exists.
// Present entries are left untouched so their TTL is never refreshed.
func (s *PopularityService) primeCache(ctx context.Context, post *domain.Post) {
	key := postCacheKey(post.ID)

	exists, err := s.cache.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("cache check failed", zap.String("key", key), zap.Error(err))
		return
	}
	if exists {
		return
	}

	data, err := json.Marshal(post)
	if err != nil {
		s.logger.Warn("snapshot marshal failed", zap.Int("post_id", post.ID), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.postTTL); err != nil {
		s.logger.Warn("cache prime failed", zap.String("key", key), zap.Error(err))
		return
	}

	s.logger.Debug("popular post cached", zap.Int("post_id", post.ID))
}

// notifyOnce records the ledger entry and, only when this pass won the
// insert, publishes the notification. Reports whether a notification went
// out.
func (s *PopularityService) notifyOnce(ctx context.Context, post *domain.Post) (bool, error) {
	recorded, err := s.ledger.RecordFired(ctx, post.ID, domain.NotificationPopularPost, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("recording notification: %w", err)
	}
	if !recorded {
		// A concurrent pass got there first.
		return false, nil
	}

	err = s.pub.PublishNotification(ctx, domain.EmailNotification{
		To:      post.UserID,
		Subject: domain.NotificationPopularPost,
		Placeholders: map[string]string{
			"post_id":    strconv.Itoa(post.ID),
			"post_title": post.Title,
			"views":      strconv.Itoa(post.ViewsCount),
		},
	})
	if err != nil {
		// Ledger-first ordering: the entry stands and the event is lost
		// rather than ever sent twice.
		s.logger.Error("notification publish failed",
			zap.Int("post_id", post.ID),
			zap.Error(err),
		)
		return true, nil
	}

	s.logger.Info("popular post notified",
		zap.Int("post_id", post.ID),
		zap.Int("views", post.ViewsCount),
	)

	return true, nil
}
