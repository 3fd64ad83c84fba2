// Package calculator holds the pure arithmetic of the ledger.
package calculator

import "github.com/mmynk/tabungan/internal/models"

// CalculateBalance folds a student's ledger into its current balance.
//
// Algorithm:
//   - start at zero
//   - DEPOSIT adds its amount
//   - WITHDRAW subtracts its amount
//
// The order of txs does not matter and the slice is not modified. Entries of
// an unknown kind are ignored; the store never persists them.
func CalculateBalance(txs []*models.Transaction) int64 {
	var balance int64
	for _, tx := range txs {
		switch tx.Kind {
		case models.KindDeposit:
			balance += tx.Amount
		case models.KindWithdraw:
			balance -= tx.Amount
		}
	}
	return balance
}

// Totals is the breakdown of a ledger by direction.
type Totals struct {
	Deposited int64
	Withdrawn int64
	Balance   int64
	Count     int
}

// CalculateTotals returns deposit and withdraw sums alongside the balance.
// Used for statements.
func CalculateTotals(txs []*models.Transaction) Totals {
	t := Totals{Count: len(txs)}
	for _, tx := range txs {
		switch tx.Kind {
		case models.KindDeposit:
			t.Deposited += tx.Amount
		case models.KindWithdraw:
			t.Withdrawn += tx.Amount
		}
	}
	t.Balance = CalculateBalance(txs)
	return t
}
