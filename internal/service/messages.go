package service

import (
	"time"

	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/models"
)

// Wire messages. The REST API uses the same shapes.

type LoginAdminRequest struct {
	Password string `json:"password"`
}

type LoginRequest struct {
	NIS string `json:"nis"`
	PIN string `json:"pin"`
}

type LoginResponse struct {
	Token   string   `json:"token"`
	Role    string   `json:"role"`
	Student *Student `json:"student,omitempty"`
}

type Me struct {
	Role string `json:"role"`
	ID   int64  `json:"id,omitempty"`
	NIS  string `json:"nis,omitempty"`
	Name string `json:"name,omitempty"`
}

type MeResponse struct {
	Me *Me `json:"me"`
}

// Student is a student as seen by clients. The PIN hash never leaves the server.
type Student struct {
	ID        int64  `json:"id"`
	NIS       string `json:"nis"`
	Name      string `json:"name"`
	Saldo     *int64 `json:"saldo,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type ListStudentsResponse struct {
	Students []*Student `json:"students"`
}

type GetStudentRequest struct {
	ID int64 `json:"id"`
}

type CreateStudentRequest struct {
	NIS  string `json:"nis"`
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

// UpdateStudentRequest is a partial update; omitted fields are kept.
type UpdateStudentRequest struct {
	ID   int64   `json:"id"`
	NIS  *string `json:"nis,omitempty"`
	Name *string `json:"name,omitempty"`
	PIN  *string `json:"pin,omitempty"`
}

type StudentResponse struct {
	Student *Student `json:"student"`
}

type DeleteStudentRequest struct {
	ID int64 `json:"id"`
}

type DeleteStudentResponse struct {
	OK bool `json:"ok"`
}

type RecordTransactionRequest struct {
	StudentID int64  `json:"student_id"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	Note      string `json:"note,omitempty"`
}

type Transaction struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	Amount    int64  `json:"amount"`
	Type      string `json:"type"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

type TransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	StudentID int64 `json:"student_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetBalanceRequest struct {
	StudentID int64 `json:"student_id"`
}

type BalanceResponse struct {
	StudentID int64 `json:"student_id"`
	Saldo     int64 `json:"saldo"`
}

// FormatTime renders a unix timestamp for the wire.
func FormatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// StudentFrom converts a student without a balance.
func StudentFrom(s *models.Student) *Student {
	return &Student{
		ID:        s.ID,
		NIS:       s.NIS,
		Name:      s.Name,
		CreatedAt: FormatTime(s.CreatedAt),
	}
}

// StudentWithBalance converts a student and its derived balance.
func StudentWithBalance(sb *ledger.StudentBalance) *Student {
	out := StudentFrom(sb.Student)
	saldo := sb.Balance
	out.Saldo = &saldo
	return out
}

// TransactionFrom converts a ledger entry.
func TransactionFrom(tx *models.Transaction) *Transaction {
	return &Transaction{
		ID:        tx.ID,
		StudentID: tx.StudentID,
		Amount:    tx.Amount,
		Type:      string(tx.Kind),
		Note:      tx.Note,
		CreatedAt: FormatTime(tx.CreatedAt),
	}
}

// TransactionsFrom converts a ledger, keeping its order. Never returns nil.
func TransactionsFrom(txs []*models.Transaction) []*Transaction {
	out := make([]*Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, TransactionFrom(tx))
	}
	return out
}

// MeFrom converts a principal.
func MeFrom(p *models.Principal) *Me {
	return &Me{Role: string(p.Role), ID: p.StudentID, NIS: p.NIS, Name: p.Name}
}
