// Package ledger implements the account directory and the ledger operations
// on top of a storage.Store. It knows nothing about transports or tokens;
// callers authorize before calling in.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/tabungan/internal/calculator"
	"github.com/mmynk/tabungan/internal/events"
	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/storage"
)

// publishTimeout bounds how long a commit waits on the event publisher.
const publishTimeout = 5 * time.Second

// Observer is notified of every committed transaction.
type Observer interface {
	ObserveTransaction(kind string, amount int64)
}

// Ledger records and reads student transactions.
type Ledger struct {
	store     storage.Store
	publisher events.Publisher
	observer  Observer
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets where TransactionRecorded events go.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithObserver sets a metrics observer.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// New creates a Ledger over store. Events default to the log publisher.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: events.NewLogPublisher(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a transaction for a student. kind must be DEPOSIT or
// WITHDRAW and amount positive. A WITHDRAW larger than the current balance
// fails with storage.ErrInsufficientFunds and leaves the ledger unchanged.
func (l *Ledger) Append(ctx context.Context, studentID, amount int64, kind, note string) (*models.Transaction, error) {
	if studentID <= 0 {
		return nil, fmt.Errorf("%w: student_id is required", ErrInvalidInput)
	}
	k, err := models.ParseKind(kind)
	if err != nil {
		return nil, storage.ErrInvalidKind
	}

	tx := &models.Transaction{
		StudentID: studentID,
		Amount:    amount,
		Kind:      k,
		Note:      strings.TrimSpace(note),
	}
	if err := l.store.AppendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("Transaction recorded",
		"transaction_id", tx.ID,
		"student_id", tx.StudentID,
		"type", tx.Kind,
		"amount", tx.Amount,
	)

	if l.observer != nil {
		l.observer.ObserveTransaction(string(tx.Kind), tx.Amount)
	}
	l.publish(ctx, tx)

	return tx, nil
}

// publish emits the event for a committed transaction. Failures are logged;
// the transaction is already durable.
func (l *Ledger) publish(ctx context.Context, tx *models.Transaction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := l.publisher.Publish(ctx, events.TransactionRecorded{
		TransactionID: tx.ID,
		StudentID:     tx.StudentID,
		Kind:          string(tx.Kind),
		Amount:        tx.Amount,
		Note:          tx.Note,
		OccurredAt:    time.Unix(tx.CreatedAt, 0).UTC(),
	})
	if err != nil {
		slog.Error("Failed to publish transaction event", "transaction_id", tx.ID, "error", err)
	}
}

// List returns a student's transactions, newest first. Fails with
// storage.ErrNotFound if the student does not exist.
func (l *Ledger) List(ctx context.Context, studentID int64) ([]*models.Transaction, error) {
	if _, err := l.store.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return l.store.ListTransactions(ctx, studentID)
}

// Balance recomputes a student's balance from the ledger. Fails with
// storage.ErrNotFound if the student does not exist.
func (l *Ledger) Balance(ctx context.Context, studentID int64) (int64, error) {
	txs, err := l.List(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return calculator.CalculateBalance(txs), nil
}

// Statement is a student's full ledger with totals.
type Statement struct {
	Student      *models.Student
	Transactions []*models.Transaction
	Totals       calculator.Totals
	GeneratedAt  time.Time
}

// Statement gathers everything needed to render an account statement.
func (l *Ledger) Statement(ctx context.Context, studentID int64) (*Statement, error) {
	student, err := l.store.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	txs, err := l.store.ListTransactions(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &Statement{
		Student:      student,
		Transactions: txs,
		Totals:       calculator.CalculateTotals(txs),
		GeneratedAt:  time.Now(),
	}, nil
}
