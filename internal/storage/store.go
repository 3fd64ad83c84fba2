// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/tabungan/internal/models"
)

var (
	// ErrNotFound is returned when a student does not exist.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateKey is returned when a NIS is already taken by another student.
	ErrDuplicateKey = errors.New("nis already in use")
	// ErrInvalidAmount is returned for a transaction amount that is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidKind is returned for a transaction kind other than DEPOSIT or WITHDRAW.
	ErrInvalidKind = errors.New("type must be DEPOSIT or WITHDRAW")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient balance")
	// ErrBalanceOverflow is returned when a deposit would push the balance
	// past what an int64 can hold. It is a kind of ErrInvalidAmount.
	ErrBalanceOverflow = fmt.Errorf("%w: balance would overflow", ErrInvalidAmount)
)

// Store defines the interface for student and ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// Students are returned newest first. Transactions are returned in reverse
// insertion order (descending ID), whatever their timestamps say.
type Store interface {
	// CreateStudent persists a new student. The ID field is populated by the store.
	// Returns ErrDuplicateKey if the NIS is taken.
	CreateStudent(ctx context.Context, student *models.Student) error

	// GetStudent retrieves a student by ID. Returns ErrNotFound if absent.
	GetStudent(ctx context.Context, id int64) (*models.Student, error)

	// GetStudentByNIS retrieves a student by NIS. Returns ErrNotFound if absent.
	GetStudentByNIS(ctx context.Context, nis string) (*models.Student, error)

	// ListStudents returns all students, most recently created first.
	ListStudents(ctx context.Context) ([]*models.Student, error)

	// UpdateStudent overwrites NIS, name and PIN hash of an existing student.
	// Returns ErrNotFound or ErrDuplicateKey.
	UpdateStudent(ctx context.Context, student *models.Student) error

	// DeleteStudent removes a student and all of its transactions atomically.
	// Returns ErrNotFound if absent, in which case nothing is removed.
	DeleteStudent(ctx context.Context, id int64) error

	// AppendTransaction records a transaction. A WITHDRAW is checked against
	// the balance within the same database transaction as the insert and fails
	// with ErrInsufficientFunds when it would overdraw the account.
	// The ID and CreatedAt fields are populated by the store.
	AppendTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactions returns the ledger of a student, newest first.
	// It does not check that the student exists.
	ListTransactions(ctx context.Context, studentID int64) ([]*models.Transaction, error)

	// DeleteTransactions removes every transaction of a student.
	DeleteTransactions(ctx context.Context, studentID int64) error

	// Close releases any resources held by the store.
	Close() error
}

// ValidateTransaction checks the fields a store requires before appending.
func ValidateTransaction(tx *models.Transaction) error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !tx.Kind.Valid() {
		return ErrInvalidKind
	}
	return nil
}
