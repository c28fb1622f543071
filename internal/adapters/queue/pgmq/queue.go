package pgmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
)

// queueNamePattern matches the identifiers pgmq accepts for queue tables.
var queueNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,46}$`)

// Options holds queue defaults.
type Options struct {
	VisibilityTimeout time.Duration
	BatchSize         int
	MaxReadCount      int
}

// Queue wraps a Store with the client-side conventions used by background tasks.
type Queue struct {
	store  Store
	opts   Options
	logger *log.Logger
}

// New constructs a queue client. Zero options select the package defaults.
func New(store Store, opts Options, logger *log.Logger) *Queue {
	if opts.VisibilityTimeout <= 0 {
		opts.VisibilityTimeout = DefaultVisibilityTimeout
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.MaxReadCount <= 0 {
		opts.MaxReadCount = DefaultMaxReadCount
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{store: store, opts: opts, logger: logger.WithPrefix("pgmq")}
}

// Options returns the effective queue options.
func (q *Queue) Options() Options {
	return q.opts
}

// EnsureQueue creates the named queue when it does not exist yet.
func (q *Queue) EnsureQueue(ctx context.Context, queue string) error {
	if err := ValidateName(queue); err != nil {
		return err
	}
	return q.store.CreateQueue(ctx, queue)
}

// Send ensures the queue exists and enqueues message as JSON after delay.
func (q *Queue) Send(ctx context.Context, queue string, message any, delay time.Duration) (int64, error) {
	if err := q.EnsureQueue(ctx, queue); err != nil {
		return 0, fmt.Errorf("ensure queue %s: %w", queue, err)
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return 0, fmt.Errorf("encode message: %w", err)
	}
	id, err := q.store.Send(ctx, queue, payload, int(delay/time.Second))
	if err != nil {
		return 0, err
	}
	q.logger.Debug("message sent", "queue", queue, "msg_id", id)
	return id, nil
}

// Read reads up to maxMessages messages, hiding them for visibility. Zero values select the
// configured defaults.
func (q *Queue) Read(ctx context.Context, queue string, visibility time.Duration, maxMessages int) ([]Message, error) {
	if err := ValidateName(queue); err != nil {
		return nil, err
	}
	if visibility <= 0 {
		visibility = q.opts.VisibilityTimeout
	}
	if maxMessages <= 0 {
		maxMessages = q.opts.BatchSize
	}
	return q.store.Read(ctx, queue, int(visibility/time.Second), maxMessages)
}

// Delete removes a message. A zero message id is skipped.
func (q *Queue) Delete(ctx context.Context, queue string, messageID int64) (bool, error) {
	if messageID == 0 {
		q.logger.Info("no message id provided, skipping deletion", "queue", queue)
		return false, nil
	}
	q.logger.Info("deleting message", "queue", queue, "msg_id", messageID)
	deleted, err := q.store.Delete(ctx, queue, messageID)
	if err != nil {
		return false, err
	}
	q.logger.Debug("delete message result", "queue", queue, "msg_id", messageID, "deleted", deleted)
	return deleted, nil
}

// HandleMaxRetries abandons msg once it has been read more than the configured maximum: the
// message is deleted, onMaxRetries runs when set, and an error wrapping ErrMaxRetries is
// returned so the caller stops processing it. It returns nil for messages still in budget.
func (q *Queue) HandleMaxRetries(ctx context.Context, queue string, msg Message, onMaxRetries func(context.Context) error) error {
	if msg.ReadCount <= q.opts.MaxReadCount {
		return nil
	}
	q.logger.Info("max retries reached, marking as failed", "queue", queue, "msg_id", msg.ID, "read_ct", msg.ReadCount)

	errs := []error{fmt.Errorf("queue %s message %d: %w", queue, msg.ID, ErrMaxRetries)}
	if _, err := q.Delete(ctx, queue, msg.ID); err != nil {
		q.logger.Warn("delete exhausted message", "queue", queue, "msg_id", msg.ID, "err", err)
		errs = append(errs, err)
	}
	if onMaxRetries != nil {
		if err := onMaxRetries(ctx); err != nil {
			errs = append(errs, fmt.Errorf("max retries callback: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ValidateName rejects names pgmq cannot turn into queue tables.
func ValidateName(queue string) error {
	if !queueNamePattern.MatchString(queue) {
		return fmt.Errorf("%w: %q", ErrInvalidQueueName, queue)
	}
	return nil
}
