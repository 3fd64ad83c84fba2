package auth

import (
	"context"

	"github.com/mmynk/tabungan/internal/models"
)

// Authenticator defines the interface for student credential checks.
// This abstraction keeps the hash format out of the service layer, so the
// PIN scheme can change without touching callers.
type Authenticator interface {
	// Authenticate looks up the student by NIS and verifies the PIN.
	// Returns ErrStudentNotFound or ErrWrongPIN on failure.
	Authenticate(ctx context.Context, nis, pin string) (*models.Student, error)

	// HashCredential turns a PIN into the opaque value stored with the student.
	HashCredential(pin string) (string, error)

	// ValidateCredential checks if the PIN meets the implementation's requirements.
	ValidateCredential(pin string) error

	// VerifyAdmin compares a presented secret with the configured admin password.
	VerifyAdmin(secret string) bool
}
