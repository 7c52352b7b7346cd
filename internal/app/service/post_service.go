// Package service provides application use cases.
package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// PostService handles post CRUD and lifecycle transitions triggered by
// callers (as opposed to the background passes in LifecycleService).
type PostService struct {
	repo    domain.PostRepository
	cache   domain.Cache
	hash    domain.HashClient
	pub     domain.Publisher
	logger  *zap.Logger
	postTTL time.Duration
}

// NewPostService creates a new PostService.
func NewPostService(
	repo domain.PostRepository,
	cache domain.Cache,
	hash domain.HashClient,
	pub domain.Publisher,
	logger *zap.Logger,
	postTTL time.Duration,
) *PostService {
	return &PostService{
		repo:    repo,
		cache:   cache,
		hash:    hash,
		pub:     pub,
		logger:  logger,
		postTTL: postTTL,
	}
}

// postCacheKey builds the cache key for a post snapshot. The popularity
// manager primes the same keys, so both sides must agree on the format.
func postCacheKey(id int) string {
	return fmt.Sprintf("post:%d", id)
}

// CreateInput carries the fields for a new post.
type CreateInput struct {
	Title   string
	Content string
	Summary string
	Tags    []string
	UserID  int

	// ExpiresInDays is nil for posts that never expire.
	ExpiresInDays *int
}

// Create persists a new post, obtains its external hash alias, and publishes
// the initial index snapshot.
func (s *PostService) Create(ctx context.Context, in CreateInput) (*domain.Post, error) {
	now := time.Now().UTC()

	post := &domain.Post{
		Title:   in.Title,
		Slug:    makeSlug(in.Title),
		Content: in.Content,
		Summary: in.Summary,
		Tags:    in.Tags,
		UserID:  in.UserID,
	}
	if in.ExpiresInDays != nil {
		exp := now.AddDate(0, 0, *in.ExpiresInDays)
		post.ExpiresAt = &exp
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	hash, err := s.hash.GenerateHash(ctx, post.ID)
	if err != nil {
		// The post exists without an alias; slug access still works.
		s.logger.Error("hash generation failed",
			zap.Int("post_id", post.ID),
			zap.Error(err),
		)
	} else {
		post.Hash = hash
		if err := s.repo.Update(ctx, post); err != nil {
			return nil, fmt.Errorf("storing hash for post %d: %w", post.ID, err)
		}
	}

	s.publishIndex(ctx, post)

	s.logger.Info("post created",
		zap.Int("post_id", post.ID),
		zap.Int("user_id", post.UserID),
		zap.Bool("expires", post.ExpiresAt != nil),
	)

	return post, nil
}

// GetByID retrieves a live post, reading through the snapshot cache.
func (s *PostService) GetByID(ctx context.Context, id int) (*domain.Post, error) {
	key := postCacheKey(id)

	if data, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	} else if data != nil {
		var post domain.Post
		if err := json.Unmarshal(data, &post); err == nil {
			return &post, nil
		}
		// Corrupt entry, fall through to the store.
		_ = s.cache.Delete(ctx, key)
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching post %d: %w", id, err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}

	if data, err := json.Marshal(post); err == nil {
		if err := s.cache.Set(ctx, key, data, s.postTTL); err != nil {
			s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return post, nil
}

// GetBySlug retrieves a live post by its slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("fetching post by slug: %w", err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	return post, nil
}

// GetByHash retrieves a live post by its hash alias. The local column is
// tried first; the hash service is consulted only on a miss.
func (s *PostService) GetByHash(ctx context.Context, hash string) (*domain.Post, error) {
	post, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("fetching post by hash: %w", err)
	}
	if post != nil {
		return post, nil
	}

	id, err := s.hash.PostIDByHash(ctx, hash)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a post on behalf of its author: the row is marked
// deleted, the hash alias is flipped, the cache entry is evicted, and an
// updated index snapshot goes out.
func (s *PostService) Delete(ctx context.Context, id int) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching post %d: %w", id, err)
	}
	if post == nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := post.SoftDelete(now); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id, now); err != nil {
		return fmt.Errorf("soft-deleting post %d: %w", id, err)
	}

	if err := s.hash.DeleteHash(ctx, id); err != nil {
		s.logger.Error("hash delete failed", zap.Int("post_id", id), zap.Error(err))
	}

	if err := s.cache.Delete(ctx, postCacheKey(id)); err != nil {
		s.logger.Warn("cache evict failed", zap.Int("post_id", id), zap.Error(err))
	}

	s.publishIndex(ctx, post)

	s.logger.Info("post soft-deleted", zap.Int("post_id", id))
	return nil
}

// Restore brings a soft-deleted post back to life. With a nil days argument
// the remaining lifetime at deletion time is preserved; with an explicit days
// argument the post gets a fresh lifetime.
func (s *PostService) Restore(ctx context.Context, id int, days *int) (*domain.Post, error) {
	post, err := s.repo.GetDeletedByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching deleted post %d: %w", id, err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := post.Restore(now, days); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("restoring post %d: %w", id, err)
	}

	if err := s.hash.RestoreHashes(ctx, []int{id}); err != nil {
		s.logger.Error("hash restore failed", zap.Int("post_id", id), zap.Error(err))
	}

	s.publishIndex(ctx, post)

	s.logger.Info("post restored", zap.Int("post_id", id))
	return post, nil
}

// RestoreAllByUser restores every soft-deleted post of a user and returns
// the restored posts.
func (s *PostService) RestoreAllByUser(ctx context.Context, userID int, days *int) ([]*domain.Post, error) {
	deleted, err := s.repo.ListDeletedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing deleted posts for user %d: %w", userID, err)
	}

	now := time.Now().UTC()
	restored := make([]*domain.Post, 0, len(deleted))
	ids := make([]int, 0, len(deleted))

	for _, post := range deleted {
		if err := post.Restore(now, days); err != nil {
			continue
		}
		if err := s.repo.Update(ctx, post); err != nil {
			s.logger.Error("restore failed", zap.Int("post_id", post.ID), zap.Error(err))
			continue
		}
		restored = append(restored, post)
		ids = append(ids, post.ID)
		s.publishIndex(ctx, post)
	}

	if len(ids) > 0 {
		if err := s.hash.RestoreHashes(ctx, ids); err != nil {
			s.logger.Error("bulk hash restore failed",
				zap.Int("user_id", userID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user posts restored",
		zap.Int("user_id", userID),
		zap.Int("count", len(restored)),
	)

	return restored, nil
}

// DeleteAllByUser soft-deletes every live post of a user.
func (s *PostService) DeleteAllByUser(ctx context.Context, userID int) (int, error) {
	posts, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing posts for user %d: %w", userID, err)
	}

	count := 0
	for _, post := range posts {
		if err := s.Delete(ctx, post.ID); err != nil {
			s.logger.Error("bulk delete failed", zap.Int("post_id", post.ID), zap.Error(err))
			continue
		}
		count++
	}

	return count, nil
}

// ListByUser returns a user's live posts.
func (s *PostService) ListByUser(ctx context.Context, userID int) ([]*domain.Post, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListDeletedByUser returns a user's soft-deleted posts.
func (s *PostService) ListDeletedByUser(ctx context.Context, userID int) ([]*domain.Post, error) {
	return s.repo.ListDeletedByUser(ctx, userID)
}

// ListAllByUser returns all of a user's posts regardless of state.
func (s *PostService) ListAllByUser(ctx context.Context, userID int) ([]*domain.Post, error) {
	return s.repo.ListAllByUser(ctx, userID)
}

// Counts returns the number of live and soft-deleted posts.
func (s *PostService) Counts(ctx context.Context) (active, deleted int64, err error) {
	return s.repo.Counts(ctx)
}

// publishIndex sends the search-index snapshot. Index updates are advisory;
// failures are logged and never fail the calling operation.
func (s *PostService) publishIndex(ctx context.Context, post *domain.Post) {
	if err := s.pub.PublishIndex(ctx, domain.NewPostIndex(post, time.Now().UTC())); err != nil {
		s.logger.Error("index publish failed", zap.Int("post_id", post.ID), zap.Error(err))
	}
}

const slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// makeSlug derives a URL slug from the title plus a short random suffix to
// keep slugs unique without a store round-trip. Only ASCII letters and
// digits survive; everything else collapses into single dashes.
func makeSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	if slug == "" {
		slug = "post"
	}

	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugSuffixAlphabet))))
		if err != nil {
			n = big.NewInt(int64(i))
		}
		suffix[i] = slugSuffixAlphabet[n.Int64()]
	}

	return slug + "-" + string(suffix)
}
