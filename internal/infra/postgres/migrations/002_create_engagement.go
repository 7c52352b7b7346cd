package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createEngagementTables creates the likes, reviews, and notification ledger
// tables. The unique index on sent_notifications is load-bearing: it is the
// hard constraint behind the at-most-once notification guarantee.
func createEngagementTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_create_engagement",
		Migrate: func(tx *gorm.DB) error {
			stmts := []string{
				`CREATE TABLE IF NOT EXISTS post_likes (
					id SERIAL PRIMARY KEY,
					post_id INTEGER NOT NULL,
					user_id INTEGER NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT uq_post_user_like UNIQUE (post_id, user_id)
				);`,
				`CREATE TABLE IF NOT EXISTS reviews (
					id SERIAL PRIMARY KEY,
					post_id INTEGER NOT NULL,
					user_id INTEGER NOT NULL,
					grade INTEGER NOT NULL CHECK (grade BETWEEN 1 AND 5),
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);`,
				`CREATE TABLE IF NOT EXISTS sent_notifications (
					id SERIAL PRIMARY KEY,
					post_id INTEGER NOT NULL,
					notification_type VARCHAR(64) NOT NULL,
					sent_at TIMESTAMP NOT NULL,
					CONSTRAINT uq_post_notification UNIQUE (post_id, notification_type)
				);`,
				"CREATE INDEX IF NOT EXISTS idx_post_likes_user_id ON post_likes(user_id);",
				"CREATE INDEX IF NOT EXISTS idx_reviews_post_id ON reviews(post_id);",
				"CREATE INDEX IF NOT EXISTS idx_sent_notifications_type ON sent_notifications(notification_type);",
			}

			for _, stmt := range stmts {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			stmts := []string{
				"DROP TABLE IF EXISTS sent_notifications;",
				"DROP TABLE IF EXISTS reviews;",
				"DROP TABLE IF EXISTS post_likes;",
			}
			for _, stmt := range stmts {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}

			return nil
		},
	}
}
