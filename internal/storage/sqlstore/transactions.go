package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mmynk/tabungan/internal/calculator"
	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/storage"
)

// AppendTransaction validates and records a ledger entry.
// The existence check, the balance check and the insert share one database
// transaction, so no other write can slip in between.
func (s *SQLStore) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	if err := storage.ValidateTransaction(t); err != nil {
		return err
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}

	var note any
	if t.Note != "" {
		note = t.Note
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRowContext(ctx,
			s.q("SELECT id FROM students WHERE id = ?"+s.dialect.LockClause),
			t.StudentID,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock student: %w", err)
		}

		ledger, err := s.listTransactions(ctx, tx, t.StudentID)
		if err != nil {
			return err
		}
		balance := calculator.CalculateBalance(ledger)
		switch t.Kind {
		case models.KindWithdraw:
			if t.Amount > balance {
				return storage.ErrInsufficientFunds
			}
		case models.KindDeposit:
			if balance > math.MaxInt64-t.Amount {
				return storage.ErrBalanceOverflow
			}
		}

		err = tx.QueryRowContext(ctx,
			s.q(`INSERT INTO transactions (student_id, amount, type, note, created_at)
			 VALUES (?, ?, ?, ?, ?) RETURNING id`),
			t.StudentID, t.Amount, string(t.Kind), note, t.CreatedAt,
		).Scan(&t.ID)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return nil
	})
}

// ListTransactions retrieves a student's ledger, newest first.
func (s *SQLStore) ListTransactions(ctx context.Context, studentID int64) ([]*models.Transaction, error) {
	return s.listTransactions(ctx, s.db, studentID)
}

func (s *SQLStore) listTransactions(ctx context.Context, q querier, studentID int64) ([]*models.Transaction, error) {
	rows, err := q.QueryContext(ctx,
		s.q(`SELECT id, student_id, amount, type, note, created_at
		 FROM transactions WHERE student_id = ? ORDER BY id DESC`),
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		var kind string
		var note sql.NullString

		if err := rows.Scan(&t.ID, &t.StudentID, &t.Amount, &kind, &note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t.Kind = models.Kind(kind)
		if note.Valid {
			t.Note = note.String
		}

		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// DeleteTransactions removes a student's whole ledger.
func (s *SQLStore) DeleteTransactions(ctx context.Context, studentID int64) error {
	return s.deleteTransactions(ctx, s.db, studentID)
}

func (s *SQLStore) deleteTransactions(ctx context.Context, q querier, studentID int64) error {
	if _, err := q.ExecContext(ctx, s.q("DELETE FROM transactions WHERE student_id = ?"), studentID); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}
