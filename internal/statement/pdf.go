// Package statement renders a student's account statement as a PDF.
package statement

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/models"
)

const (
	// maxRows caps the table; older rows are summarized in a footer line.
	maxRows = 500

	// pageBreakY is where a new page starts, leaving room for the footer.
	pageBreakY = 270
)

var colW = []float64{36, 28, 84, 34}

// Filename returns the download name for a student's statement.
func Filename(st *ledger.Statement) string {
	return "statement-" + st.Student.NIS + "-" + st.GeneratedAt.Format("20060102") + ".pdf"
}

// Render writes the statement PDF to w.
func Render(w io.Writer, st *ledger.Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; runes outside it print as '.'.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Savings Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, tr("Student: "+st.Student.Name+" (NIS "+st.Student.NIS+")"))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated: "+st.GeneratedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{60, 60, 62}
	pdf.CellFormat(sumW[0], 10, "Deposited", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Withdrawn", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, FormatAmount(st.Totals.Deposited), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, FormatAmount(st.Totals.Withdrawn), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, FormatAmount(st.Totals.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	tableHeader(pdf)
	for i, tx := range st.Transactions {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, fmt.Sprintf("%d older transactions not shown", len(st.Transactions)-maxRows), "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			tableHeader(pdf)
		}

		pdf.CellFormat(colW[0], 8, time.Unix(tx.CreatedAt, 0).Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[1], 8, string(tx.Kind), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colW[2], 8, tr(trimTo(tx.Note, 60)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 8, signed(tx), "1", 1, "R", false, 0, "")
	}
	if len(st.Transactions) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, "No transactions yet", "1", 1, "C", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated by Tabungan - "+st.GeneratedAt.Format(time.RFC3339), "", 0, "C", false, 0, "")

	// Buffer first so a failed render never leaves a half-written response.
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.CellFormat(colW[0], 8, "DATE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[1], 8, "TYPE", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colW[2], 8, "NOTE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[3], 8, "AMOUNT", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
}

func signed(tx *models.Transaction) string {
	if tx.Kind == models.KindWithdraw {
		return "-" + FormatAmount(tx.Amount)
	}
	return "+" + FormatAmount(tx.Amount)
}

// FormatAmount renders n with dot thousands separators, e.g. 1.250.000.
func FormatAmount(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

// trimTo shortens s to at most max runes, marking the cut with "...".
func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
