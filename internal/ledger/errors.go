package ledger

import "errors"

// ErrInvalidInput marks a request that failed field validation. Storage
// validation errors (amount, kind) are passed through unchanged.
var ErrInvalidInput = errors.New("invalid input")
