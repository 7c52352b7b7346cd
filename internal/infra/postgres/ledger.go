package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paste-content-service/internal/domain"
)

// Ledger implements domain.NotificationLedger using PostgreSQL.
//
// The at-most-once guarantee rests on the unique (post_id, notification_type)
// index: concurrent passes that both observe "not fired" race to insert, and
// the store lets exactly one of them win.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a new PostgreSQL notification ledger.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// HasFired reports whether a notification was already recorded.
func (l *Ledger) HasFired(ctx context.Context, postID int, t domain.NotificationType) (bool, error) {
	var model SentNotificationModel
	err := l.db.WithContext(ctx).
		Where("post_id = ? AND notification_type = ?", postID, string(t)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("checking ledger: %w", err)
	}

	return true, nil
}

// RecordFired inserts the ledger entry with ON CONFLICT DO NOTHING.
// Returns false when another pass already recorded the same pair; callers
// must then suppress the outbound event.
func (l *Ledger) RecordFired(ctx context.Context, postID int, t domain.NotificationType, when time.Time) (bool, error) {
	model := &SentNotificationModel{
		PostID:           postID,
		NotificationType: string(t),
		SentAt:           when,
	}

	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		// A driver may still surface the conflict as an error; that is the
		// expected outcome under races, not a failure.
		if isUniqueViolation(result.Error) {
			return false, nil
		}

		return false, fmt.Errorf("recording notification: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// FiredPostIDs returns the set of posts already notified for a type.
func (l *Ledger) FiredPostIDs(ctx context.Context, t domain.NotificationType) (map[int]struct{}, error) {
	var ids []int
	err := l.db.WithContext(ctx).Model(&SentNotificationModel{}).
		Where("notification_type = ?", string(t)).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("listing notified posts: %w", err)
	}

	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set, nil
}
