package pgmq

import (
	"context"
	"errors"
	"fmt"
)

// Handler processes one message. A nil error acknowledges it.
type Handler func(ctx context.Context, msg Message) error

// BatchResult summarizes one ProcessBatch call.
type BatchResult struct {
	Read      int      `json:"read"`
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Abandoned int      `json:"abandoned"`
	Errors    []string `json:"errors,omitempty"`
}

// Worker drains one queue with the retry guard applied to every message.
type Worker struct {
	queue        *Queue
	name         string
	onMaxRetries func(context.Context, Message) error
}

// NewWorker constructs a worker for the named queue. onMaxRetries may be nil.
func NewWorker(queue *Queue, name string, onMaxRetries func(context.Context, Message) error) *Worker {
	return &Worker{queue: queue, name: name, onMaxRetries: onMaxRetries}
}

// ProcessBatch reads one batch and runs handler on every message still within its retry
// budget. Successful messages are deleted; failed ones stay for redelivery after the
// visibility timeout.
func (w *Worker) ProcessBatch(ctx context.Context, handler Handler) (BatchResult, error) {
	msgs, err := w.queue.Read(ctx, w.name, 0, 0)
	if err != nil {
		return BatchResult{}, fmt.Errorf("read batch from %s: %w", w.name, err)
	}
	result := BatchResult{Read: len(msgs)}
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		var cleanup func(context.Context) error
		if w.onMaxRetries != nil {
			cleanup = func(ctx context.Context) error { return w.onMaxRetries(ctx, msg) }
		}
		if err := w.queue.HandleMaxRetries(ctx, w.name, msg, cleanup); err != nil {
			if errors.Is(err, ErrMaxRetries) {
				result.Abandoned++
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			return result, err
		}
		if err := handler(ctx, msg); err != nil {
			w.queue.logger.Warn("message handler failed", "queue", w.name, "msg_id", msg.ID, "read_ct", msg.ReadCount, "err", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("message %d: %v", msg.ID, err))
			continue
		}
		if _, err := w.queue.Delete(ctx, w.name, msg.ID); err != nil {
			return result, fmt.Errorf("acknowledge message %d: %w", msg.ID, err)
		}
		result.Processed++
	}
	return result, nil
}
