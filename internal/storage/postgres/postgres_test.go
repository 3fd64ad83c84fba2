package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/storage"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT id FROM students WHERE id = ?", "SELECT id FROM students WHERE id = $1"},
		{"INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Rebind(tt.in); got != tt.want {
				t.Errorf("Rebind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected 23505 to be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation reported as unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("plain error reported as unique violation")
	}
}

// TestPostgresStore runs against a real server when TABUNGAN_TEST_POSTGRES_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TABUNGAN_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TABUNGAN_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	if _, err := store.DB().ExecContext(ctx, "TRUNCATE transactions, students RESTART IDENTITY"); err != nil {
		t.Fatalf("Failed to reset tables: %v", err)
	}

	student := models.NewStudent("S001", "Alice", "hash")
	if err := store.CreateStudent(ctx, student); err != nil {
		t.Fatalf("CreateStudent failed: %v", err)
	}
	if err := store.CreateStudent(ctx, models.NewStudent("S001", "Bob", "hash")); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	for _, tx := range []*models.Transaction{
		{StudentID: student.ID, Amount: 5000, Kind: models.KindDeposit},
		{StudentID: student.ID, Amount: 2000, Kind: models.KindDeposit},
		{StudentID: student.ID, Amount: 3000, Kind: models.KindWithdraw},
	} {
		if err := store.AppendTransaction(ctx, tx); err != nil {
			t.Fatalf("AppendTransaction failed: %v", err)
		}
	}

	err = store.AppendTransaction(ctx, &models.Transaction{StudentID: student.ID, Amount: 5000, Kind: models.KindWithdraw})
	if !errors.Is(err, storage.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	txs, err := store.ListTransactions(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 3 || txs[0].Kind != models.KindWithdraw {
		t.Errorf("unexpected ledger: %+v", txs)
	}

	if err := store.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	txs, err = store.ListTransactions(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected cascade delete, %d transactions left", len(txs))
	}
}
