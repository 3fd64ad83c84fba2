package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/tabungan/internal/auth"
	"github.com/mmynk/tabungan/internal/ledger"
	"github.com/mmynk/tabungan/internal/storage"
)

var errInternal = errors.New("internal error")

// CodeOf classifies a domain error.
func CodeOf(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, storage.ErrInvalidAmount),
		errors.Is(err, storage.ErrInvalidKind):
		return connect.CodeInvalidArgument
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrWrongPIN),
		errors.Is(err, auth.ErrWrongAdminPass):
		return connect.CodeUnauthenticated
	case errors.Is(err, auth.ErrForbidden):
		return connect.CodePermissionDenied
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, auth.ErrStudentNotFound):
		return connect.CodeNotFound
	case errors.Is(err, storage.ErrDuplicateKey):
		return connect.CodeAlreadyExists
	case errors.Is(err, storage.ErrInsufficientFunds):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

// toConnectError wraps err with its code. Internal errors are logged and
// replaced so storage details do not reach clients.
func toConnectError(err error) error {
	code := CodeOf(err)
	if code == connect.CodeInternal {
		slog.Error("Internal error", "error", err)
		return connect.NewError(code, errInternal)
	}
	return connect.NewError(code, err)
}
