package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/piorhaii05/eatup/internal/followup/domain"
	"github.com/piorhaii05/eatup/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Processor runs one task with its own retry policy.
type Processor interface {
	Process(ctx context.Context, t domain.Task) error
}

// Worker consumes follow-up tasks with manual acknowledgements, one message
// in flight at a time.
type Worker struct {
	id        int
	channel   *amqp.Channel
	queueName string
	proc      Processor
	log       *slog.Logger
}

func NewWorker(id int, conn *amqp.Connection, queueName string, proc Processor, log *slog.Logger) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for worker %d: %w", id, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to set QoS for worker %d: %w", id, err)
	}
	return newWorker(id, ch, queueName, proc, log), nil
}

func newWorker(id int, ch *amqp.Channel, queueName string, proc Processor, log *slog.Logger) *Worker {
	return &Worker{
		id:        id,
		channel:   ch,
		queueName: queueName,
		proc:      proc,
		log:       logger.Component(log, "rabbitmq").With("worker", id),
	}
}

// Start consumes until ctx is done or the connection closes.
func (w *Worker) Start(ctx context.Context) error {
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,
		fmt.Sprintf("followup-worker-%d", w.id),
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("worker %d failed to register consumer: %w", w.id, err)
	}

	w.log.Info("worker started")
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				w.log.Info("worker stopped: delivery channel closed")
				return nil
			}
			w.handle(ctx, msg)
		case <-ctx.Done():
			w.log.Info("worker stopped")
			return nil
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg amqp.Delivery) {
	var t domain.Task
	if err := json.Unmarshal(msg.Body, &t); err != nil {
		w.log.Error("malformed task", slog.Any("err", err))
		_ = msg.Nack(false, false)
		return
	}

	if err := w.proc.Process(ctx, t); err != nil {
		// Interrupted by shutdown: give the task back.
		requeue := ctx.Err() != nil
		if err := msg.Nack(false, requeue); err != nil {
			w.log.Error("failed to nack task", slog.String("task_id", t.ID), slog.Any("err", err))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		w.log.Error("failed to ack task", slog.String("task_id", t.ID), slog.Any("err", err))
	}
}
