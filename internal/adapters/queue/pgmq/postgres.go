package pgmq

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// undefinedFunctionCode is the Postgres error raised when pgmq functions are absent.
const undefinedFunctionCode = "42883"

// PostgresStore calls the pgmq SQL functions.
type PostgresStore struct {
	db DBTX
}

// Open opens and pings a pgx-backed database handle.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewPostgresStore constructs a store over db.
func NewPostgresStore(db DBTX) *PostgresStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresStore{db: db}
}

// CreateQueue creates the queue when it does not exist.
func (s *PostgresStore) CreateQueue(ctx context.Context, queue string) error {
	if _, err := s.db.ExecContext(ctx, `SELECT pgmq.create($1)`, queue); err != nil {
		return mapError("create queue", err)
	}
	return nil
}

// Send enqueues payload, hidden for delaySeconds.
func (s *PostgresStore) Send(ctx context.Context, queue string, payload json.RawMessage, delaySeconds int) (int64, error) {
	var id int64
	row := s.db.QueryRowContext(ctx, `SELECT pgmq.send($1, $2::jsonb, $3::integer)`, queue, string(payload), delaySeconds)
	if err := row.Scan(&id); err != nil {
		return 0, mapError("send message", err)
	}
	return id, nil
}

// Read returns up to maxMessages messages and hides them for visibilityTimeoutSeconds.
func (s *PostgresStore) Read(ctx context.Context, queue string, visibilityTimeoutSeconds, maxMessages int) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT msg_id, read_ct, enqueued_at, vt, message FROM pgmq.read($1, $2::integer, $3::integer)`,
		queue, visibilityTimeoutSeconds, maxMessages)
	if err != nil {
		return nil, mapError("read messages", err)
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var (
			msg     Message
			payload []byte
		)
		if err := rows.Scan(&msg.ID, &msg.ReadCount, &msg.EnqueuedAt, &msg.VisibleAt, &payload); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Payload = json.RawMessage(payload)
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("read messages", err)
	}
	return out, nil
}

// Delete removes a message and reports whether it existed.
func (s *PostgresStore) Delete(ctx context.Context, queue string, messageID int64) (bool, error) {
	var deleted bool
	row := s.db.QueryRowContext(ctx, `SELECT pgmq.delete($1, $2::bigint)`, queue, messageID)
	if err := row.Scan(&deleted); err != nil {
		return false, mapError("delete message", err)
	}
	return deleted, nil
}

// mapError wraps driver errors, translating a missing extension into ErrExtensionMissing.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedFunctionCode {
		return fmt.Errorf("%s: %w", op, ErrExtensionMissing)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ Store = (*PostgresStore)(nil)
