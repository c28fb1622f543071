// Package pgmq adapts the pgmq Postgres message queue extension for background tasks.
package pgmq

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Defaults mirrored by Queue when callers pass zero values.
const (
	DefaultVisibilityTimeout = 120 * time.Second
	DefaultBatchSize         = 1
	DefaultMaxReadCount      = 3
)

// ErrMaxRetries and related errors describe queue failures.
var (
	ErrMaxRetries       = errors.New("max retries reached, marking as failed")
	ErrInvalidQueueName = errors.New("invalid queue name")
	ErrExtensionMissing = errors.New("pgmq extension is not installed")
)

// Message is one queue message as returned by a read.
type Message struct {
	ID         int64           `json:"msg_id"`
	ReadCount  int             `json:"read_ct"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	VisibleAt  time.Time       `json:"vt"`
	Payload    json.RawMessage `json:"message"`
}

// Store is the remote queue surface.
type Store interface {
	CreateQueue(ctx context.Context, queue string) error
	Send(ctx context.Context, queue string, payload json.RawMessage, delaySeconds int) (int64, error)
	Read(ctx context.Context, queue string, visibilityTimeoutSeconds, maxMessages int) ([]Message, error)
	Delete(ctx context.Context, queue string, messageID int64) (bool, error)
}

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
