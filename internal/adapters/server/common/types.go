// Package common provides transport-agnostic contracts for the tasks function.
package common

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrQueueUnavailable reports a missing or unreachable queue backend.
var ErrQueueUnavailable = errors.New("queue unavailable")

// EnqueueRequest is one message submission.
type EnqueueRequest struct {
	Message      json.RawMessage `json:"message" validate:"required"`
	DelaySeconds int             `json:"delay_seconds" validate:"gte=0,lte=86400"`
}

// EnqueueResult identifies the stored message.
type EnqueueResult struct {
	Queue     string `json:"queue"`
	MessageID int64  `json:"msg_id"`
}

// DrainResult summarizes one processed batch.
type DrainResult struct {
	Queue     string   `json:"queue"`
	Read      int      `json:"read"`
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Abandoned int      `json:"abandoned"`
	Errors    []string `json:"errors,omitempty"`
}

// TaskQueue is the queue surface exposed over HTTP.
type TaskQueue interface {
	Enqueue(ctx context.Context, queue string, req EnqueueRequest) (EnqueueResult, error)
	Drain(ctx context.Context, queue string) (DrainResult, error)
}
