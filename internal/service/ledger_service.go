package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/middleware"
)

// LedgerService implements the LedgerService RPC interface. Admins record
// transactions; students read their own ledger and balance.
type LedgerService struct {
	ledger *ledger.Ledger
	gate   *auth.Gate
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(l *ledger.Ledger, gate *auth.Gate) *LedgerService {
	return &LedgerService{ledger: l, gate: gate}
}

func (s *LedgerService) authorize(ctx context.Context, rule auth.Rule) error {
	if err := s.gate.Authorize(middleware.PrincipalFrom(ctx), rule); err != nil {
		return toConnectError(err)
	}
	return nil
}

// RecordTransaction appends a DEPOSIT or WITHDRAW. Withdrawals beyond the
// balance fail with FailedPrecondition.
func (s *LedgerService) RecordTransaction(ctx context.Context, req *connect.Request[RecordTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	if err := s.authorize(ctx, auth.AdminOnly()); err != nil {
		return nil, err
	}

	tx, err := s.ledger.Append(ctx, req.Msg.StudentID, req.Msg.Amount, req.Msg.Type, req.Msg.Note)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&TransactionResponse{Transaction: TransactionFrom(tx)}), nil
}

// ListTransactions returns a student's ledger, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	if err := s.authorize(ctx, auth.OwnerOrAdmin(req.Msg.StudentID)); err != nil {
		return nil, err
	}

	txs, err := s.ledger.List(ctx, req.Msg.StudentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListTransactionsResponse{Transactions: TransactionsFrom(txs)}), nil
}

// GetBalance recomputes a student's balance from the ledger.
func (s *LedgerService) GetBalance(ctx context.Context, req *connect.Request[GetBalanceRequest]) (*connect.Response[BalanceResponse], error) {
	if err := s.authorize(ctx, auth.OwnerOrAdmin(req.Msg.StudentID)); err != nil {
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, req.Msg.StudentID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&BalanceResponse{StudentID: req.Msg.StudentID, Saldo: balance}), nil
}
