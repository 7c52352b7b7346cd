package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"paste-content-service/internal/domain"
)

// Publisher implements domain.Publisher over Redis pub/sub channels.
//
// Publishing is fire-and-forget from the engine's perspective: delivery is
// the consumer's concern, and the notification ledger (not the channel)
// carries the at-most-once guarantee.
type Publisher struct {
	client              *redis.Client
	logger              *zap.Logger
	notificationChannel string
	indexChannel        string
}

// NewPublisher creates a new Redis publisher for the notification dispatch
// and search-index channels.
func NewPublisher(client *redis.Client, logger *zap.Logger, notificationChannel, indexChannel string) *Publisher {
	return &Publisher{
		client:              client,
		logger:              logger,
		notificationChannel: notificationChannel,
		indexChannel:        indexChannel,
	}
}

// PublishNotification publishes an email notification event.
func (p *Publisher) PublishNotification(ctx context.Context, n domain.EmailNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	if err := p.client.Publish(ctx, p.notificationChannel, payload).Err(); err != nil {
		return fmt.Errorf("publishing notification: %w", err)
	}

	p.logger.Debug("notification published",
		zap.Int("recipient", n.To),
		zap.String("subject", string(n.Subject)),
	)

	return nil
}

// PublishIndex publishes a denormalized post snapshot for the search indexer.
func (p *Publisher) PublishIndex(ctx context.Context, idx domain.PostIndex) error {
	payload, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshaling index snapshot: %w", err)
	}

	if err := p.client.Publish(ctx, p.indexChannel, payload).Err(); err != nil {
		return fmt.Errorf("publishing index snapshot: %w", err)
	}

	p.logger.Debug("index snapshot published",
		zap.Int("post_id", idx.ID),
		zap.Bool("is_deleted", idx.IsDeleted),
	)

	return nil
}
