package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrWrongPIN        = errors.New("wrong pin")
	ErrWrongAdminPass  = errors.New("wrong admin password")
	ErrEmptyPIN        = errors.New("pin is required")
	ErrPINTooLong      = errors.New("pin must be at most 72 bytes")
)

// maxPINBytes is bcrypt's input limit.
const maxPINBytes = 72

// StudentStorage defines the lookups the authenticator needs.
// This allows the authenticator to be independent of the storage implementation.
type StudentStorage interface {
	GetStudentByNIS(ctx context.Context, nis string) (*models.Student, error)
}

// PINAuthenticator implements PIN-based authentication using bcrypt, plus the
// shared-secret admin check.
type PINAuthenticator struct {
	storage       StudentStorage
	adminPassword []byte
	cost          int
}

var _ Authenticator = (*PINAuthenticator)(nil)

// NewPINAuthenticator creates a new PIN authenticator. An empty adminPassword
// disables admin login.
func NewPINAuthenticator(storage StudentStorage, adminPassword string) *PINAuthenticator {
	return &PINAuthenticator{
		storage:       storage,
		adminPassword: []byte(adminPassword),
		cost:          bcrypt.DefaultCost,
	}
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func (a *PINAuthenticator) WithCost(cost int) *PINAuthenticator {
	a.cost = cost
	return a
}

// ValidateCredential checks if the PIN can be hashed.
func (a *PINAuthenticator) ValidateCredential(pin string) error {
	if pin == "" {
		return ErrEmptyPIN
	}
	if len(pin) > maxPINBytes {
		return ErrPINTooLong
	}
	return nil
}

// HashCredential returns a salted bcrypt hash of the PIN.
func (a *PINAuthenticator) HashCredential(pin string) (string, error) {
	if err := a.ValidateCredential(pin); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), a.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hashed), nil
}

// Authenticate verifies the NIS and PIN, returning the student if valid.
func (a *PINAuthenticator) Authenticate(ctx context.Context, nis, pin string) (*models.Student, error) {
	student, err := a.storage.GetStudentByNIS(ctx, nis)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PINHash), []byte(pin)); err != nil {
		return nil, ErrWrongPIN
	}

	return student, nil
}

// VerifyAdmin compares secret with the admin password in constant time.
func (a *PINAuthenticator) VerifyAdmin(secret string) bool {
	if len(a.adminPassword) == 0 || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), a.adminPassword) == 1
}
