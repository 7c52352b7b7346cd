package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createPostsTable creates the posts table with all indexes.
func createPostsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_posts",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS posts (
					id SERIAL PRIMARY KEY,
					title VARCHAR(200) NOT NULL,
					slug VARCHAR(150) NOT NULL,
					hash VARCHAR(64),
					content TEXT NOT NULL,
					summary TEXT,
					tags TEXT[] NOT NULL DEFAULT '{}',
					user_id INTEGER NOT NULL,

					-- Counters, changed only by atomic increments
					views_count INTEGER NOT NULL DEFAULT 0,
					likes_count INTEGER NOT NULL DEFAULT 0,
					rating INTEGER NOT NULL DEFAULT 0,

					-- Lifecycle
					expires_at TIMESTAMP,
					is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
					deleted_at TIMESTAMP,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_posts_slug UNIQUE (slug)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);",
				"CREATE INDEX IF NOT EXISTS idx_posts_hash ON posts(hash);",
				"CREATE INDEX IF NOT EXISTS idx_posts_expires_at ON posts(expires_at);",
				"CREATE INDEX IF NOT EXISTS idx_posts_is_deleted ON posts(is_deleted);",
				"CREATE INDEX IF NOT EXISTS idx_posts_views_count ON posts(views_count DESC);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS posts;").Error
		},
	}
}
