package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/piorhaii05/eatup/internal/followup/domain"
	"github.com/piorhaii05/eatup/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher puts follow-up tasks on the durable queue.
type Publisher struct {
	pool      *ChannelPool
	queueName string
	timeout   time.Duration
	log       *slog.Logger
}

func NewPublisher(pool *ChannelPool, queueName string, log *slog.Logger) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
		timeout:   5 * time.Second,
		log:       logger.Component(log, "rabbitmq"),
	}
}

func (p *Publisher) Enqueue(ctx context.Context, tasks ...domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ch, err := p.pool.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.Put(ch)

	for _, t := range tasks {
		msg, err := encodeTask(t)
		if err != nil {
			return err
		}
		if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, msg); err != nil {
			return fmt.Errorf("failed to publish task %s: %w", t.ID, err)
		}
		p.log.Debug("task published", slog.String("task_id", t.ID), slog.String("kind", string(t.Kind)))
	}
	return nil
}

func encodeTask(t domain.Task) (amqp.Publishing, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal task: %w", err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    t.ID,
		Type:         string(t.Kind),
		Timestamp:    t.CreatedAt,
		Body:         body,
	}, nil
}
