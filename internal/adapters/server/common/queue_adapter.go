package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evanschultz/kanfocus/internal/adapters/queue/pgmq"
)

// QueueAdapter maps transport contracts onto a pgmq queue.
type QueueAdapter struct {
	queue  *pgmq.Queue
	logger *log.Logger
}

// NewQueueAdapter builds one adapter over queue.
func NewQueueAdapter(queue *pgmq.Queue, logger *log.Logger) *QueueAdapter {
	if logger == nil {
		logger = log.Default()
	}
	return &QueueAdapter{queue: queue, logger: logger}
}

// Enqueue stores one message.
func (a *QueueAdapter) Enqueue(ctx context.Context, queue string, req EnqueueRequest) (EnqueueResult, error) {
	if a == nil || a.queue == nil {
		return EnqueueResult{}, ErrQueueUnavailable
	}
	id, err := a.queue.Send(ctx, queue, req.Message, time.Duration(req.DelaySeconds)*time.Second)
	if err != nil {
		return EnqueueResult{}, mapQueueError("enqueue", err)
	}
	return EnqueueResult{Queue: queue, MessageID: id}, nil
}

// Drain processes one batch, logging each payload and abandoning exhausted messages.
func (a *QueueAdapter) Drain(ctx context.Context, queue string) (DrainResult, error) {
	if a == nil || a.queue == nil {
		return DrainResult{}, ErrQueueUnavailable
	}
	if err := pgmq.ValidateName(queue); err != nil {
		return DrainResult{}, mapQueueError("drain", err)
	}
	worker := pgmq.NewWorker(a.queue, queue, func(_ context.Context, msg pgmq.Message) error {
		a.logger.Warn("abandoned message", "queue", queue, "msg_id", msg.ID, "read_ct", msg.ReadCount)
		return nil
	})
	result, err := worker.ProcessBatch(ctx, func(_ context.Context, msg pgmq.Message) error {
		a.logger.Info("processing message", "queue", queue, "msg_id", msg.ID, "read_ct", msg.ReadCount, "payload", string(msg.Payload))
		return nil
	})
	if err != nil {
		return DrainResult{}, mapQueueError("drain", err)
	}
	return DrainResult{
		Queue:     queue,
		Read:      result.Read,
		Processed: result.Processed,
		Failed:    result.Failed,
		Abandoned: result.Abandoned,
		Errors:    result.Errors,
	}, nil
}

// mapQueueError translates queue errors into transport errors.
func mapQueueError(op string, err error) error {
	switch {
	case errors.Is(err, pgmq.ErrInvalidQueueName):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrInvalidRequest, err))
	case errors.Is(err, pgmq.ErrExtensionMissing):
		return fmt.Errorf("%s: %w", op, errors.Join(ErrQueueUnavailable, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

var _ TaskQueue = (*QueueAdapter)(nil)
