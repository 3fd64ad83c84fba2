package statement

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mmynk/tabungan/internal/calculator"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{4000, "4.000"},
		{1250000, "1.250.000"},
		{-3000, "-3.000"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	txs := []*models.Transaction{
		{ID: 3, StudentID: 1, Amount: 3000, Kind: models.KindWithdraw, CreatedAt: 1700000200},
		{ID: 2, StudentID: 1, Amount: 2000, Kind: models.KindDeposit, Note: "uang saku", CreatedAt: 1700000100},
		{ID: 1, StudentID: 1, Amount: 5000, Kind: models.KindDeposit, CreatedAt: 1700000000},
	}
	st := &ledger.Statement{
		Student:      &models.Student{ID: 1, NIS: "S001", Name: "Alice"},
		Transactions: txs,
		Totals:       calculator.CalculateTotals(txs),
		GeneratedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := Render(&buf, st); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}

	t.Run("empty ledger", func(t *testing.T) {
		empty := &ledger.Statement{
			Student:     st.Student,
			GeneratedAt: st.GeneratedAt,
		}
		var buf bytes.Buffer
		if err := Render(&buf, empty); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if buf.Len() == 0 {
			t.Error("expected output")
		}
	})

	if got := Filename(st); !strings.HasPrefix(got, "statement-S001-20240501") {
		t.Errorf("Filename() = %q", got)
	}
}

func TestTrimTo(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "  jajan  ", 10, "jajan"},
		{"exact", "abcde", 5, "abcde"},
		{"ascii cut", "abcdefghij", 8, "abcde..."},
		{"multibyte cut", "tabungan – é ñ ü", 10, "tabunga..."},
		{"all multibyte", "ééééééééé", 6, "ééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimTo(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("trimTo(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("trimTo(%q, %d) returned invalid UTF-8", tt.in, tt.max)
			}
			if n := utf8.RuneCountInString(got); n > tt.max {
				t.Errorf("trimTo(%q, %d) has %d runes", tt.in, tt.max, n)
			}
		})
	}
}

func TestRenderNonASCII(t *testing.T) {
	txs := []*models.Transaction{
		{ID: 1, StudentID: 1, Amount: 1500, Kind: models.KindDeposit, Note: strings.Repeat("café – ", 20), CreatedAt: 1700000000},
	}
	st := &ledger.Statement{
		Student:      &models.Student{ID: 1, NIS: "S001", Name: "Siti Nurhalizā Müller"},
		Transactions: txs,
		Totals:       calculator.CalculateTotals(txs),
		GeneratedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := Render(&buf, st); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}
