package service

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// ViewService counts post views with per-visitor deduplication.
//
// The dedup check and the counter increment are not a single atomic step:
// two concurrent first views of the same post can both pass the Seen check
// and each add one. The window mark itself is written with SETNX, so the
// dedup window never extends under the same race. Popularity only needs the
// order of magnitude, so the occasional double count is acceptable.
type ViewService struct {
	repo        domain.PostRepository
	ledger      domain.ViewLedger
	logger      *zap.Logger
	dedupWindow time.Duration
}

// NewViewService creates a new ViewService.
func NewViewService(
	repo domain.PostRepository,
	ledger domain.ViewLedger,
	logger *zap.Logger,
	dedupWindow time.Duration,
) *ViewService {
	return &ViewService{
		repo:        repo,
		ledger:      ledger,
		logger:      logger,
		dedupWindow: dedupWindow,
	}
}

// VisitorIdentity resolves who is viewing. Authenticated users are keyed by
// user id. Anonymous visitors are keyed by the first X-Forwarded-For entry,
// falling back to the peer address.
func VisitorIdentity(userID int, forwardedFor, remoteAddr string) string {
	if userID != 0 {
		return fmt.Sprintf("user:%d", userID)
	}

	if forwardedFor != "" {
		first := strings.TrimSpace(strings.SplitN(forwardedFor, ",", 2)[0])
		if first != "" {
			return "ip:" + first
		}
	}

	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return "ip:" + host
	}
	return "ip:" + remoteAddr
}

// RecordView counts a view of the post by the given visitor. Authors viewing
// their own posts are never counted. Repeat views within the dedup window
// are dropped.
func (s *ViewService) RecordView(ctx context.Context, post *domain.Post, userID int, forwardedFor, remoteAddr string) error {
	if userID != 0 && userID == post.UserID {
		return nil
	}

	visitor := VisitorIdentity(userID, forwardedFor, remoteAddr)

	seen, err := s.ledger.Seen(ctx, visitor, post.ID)
	if err != nil {
		return fmt.Errorf("checking view dedup: %w", err)
	}
	if seen {
		return nil
	}

	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		return fmt.Errorf("incrementing views for post %d: %w", post.ID, err)
	}

	if err := s.ledger.MarkCounted(ctx, visitor, post.ID, s.dedupWindow); err != nil {
		// The count landed; the worst case is one extra count after the
		// window mark failed to stick.
		s.logger.Warn("view dedup mark failed",
			zap.Int("post_id", post.ID),
			zap.Error(err),
		)
	}

	s.logger.Debug("view counted",
		zap.Int("post_id", post.ID),
		zap.String("visitor", visitor),
	)

	return nil
}
