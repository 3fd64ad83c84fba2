// Package events defines the domain events emitted by the ledger and the
// publishers that deliver them.
package events

import (
	"context"
	"log/slog"
	"time"
)

// TopicTransactionRecorded is the default topic for TransactionRecorded events.
const TopicTransactionRecorded = "transaction_recorded"

// TransactionRecorded is emitted after a transaction has been committed.
type TransactionRecorded struct {
	TransactionID int64     `json:"transaction_id"`
	StudentID     int64     `json:"student_id"`
	Kind          string    `json:"type"`
	Amount        int64     `json:"amount"`
	Note          string    `json:"note,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher delivers events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, event TransactionRecorded) error
	Close() error
}

// LogPublisher writes events to the structured log. It is the default when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs through logger, or the default
// logger if nil.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event at debug level.
func (p *LogPublisher) Publish(ctx context.Context, event TransactionRecorded) error {
	p.logger.DebugContext(ctx, "Transaction recorded",
		"transaction_id", event.TransactionID,
		"student_id", event.StudentID,
		"type", event.Kind,
		"amount", event.Amount,
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
