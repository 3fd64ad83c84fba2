package models

import "fmt"

// Kind is the direction of a transaction.
type Kind string

const (
	// KindDeposit adds money to the student's balance.
	KindDeposit Kind = "DEPOSIT"
	// KindWithdraw takes money out of the student's balance.
	KindWithdraw Kind = "WITHDRAW"
)

// ParseKind validates a kind string. Matching is exact, as stored.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit, KindWithdraw:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindDeposit || k == KindWithdraw
}

// Transaction is a single movement of money in a student's ledger.
// Transactions are immutable once recorded.
type Transaction struct {
	// ID is the database-assigned identifier. IDs grow with insertion order.
	ID int64

	// StudentID is the owner of this ledger entry.
	StudentID int64

	// Amount is the positive amount in the smallest currency unit.
	Amount int64

	// Kind is DEPOSIT or WITHDRAW.
	Kind Kind

	// Note is an optional description. Empty means no note.
	Note string

	// CreatedAt is the Unix timestamp when the transaction was recorded.
	CreatedAt int64
}
