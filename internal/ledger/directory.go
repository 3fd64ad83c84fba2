package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/tabungan/internal/calculator"
	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/storage"
)

// CredentialHasher turns a PIN into its stored form.
type CredentialHasher interface {
	HashCredential(pin string) (string, error)
}

// StudentBalance is a student with its derived balance.
type StudentBalance struct {
	Student *models.Student
	Balance int64
}

// StudentPatch holds the fields of a partial update. Nil fields are kept.
// An empty PIN is treated as not provided.
type StudentPatch struct {
	NIS  *string
	Name *string
	PIN  *string
}

// Directory manages student records.
type Directory struct {
	store  storage.Store
	hasher CredentialHasher
}

// NewDirectory creates a Directory that hashes PINs with hasher.
func NewDirectory(store storage.Store, hasher CredentialHasher) *Directory {
	return &Directory{store: store, hasher: hasher}
}

// Create enrolls a student. Fails with storage.ErrDuplicateKey if the NIS is taken.
func (d *Directory) Create(ctx context.Context, nis, name, pin string) (*StudentBalance, error) {
	nis = strings.TrimSpace(nis)
	name = strings.TrimSpace(name)
	if nis == "" || name == "" || pin == "" {
		return nil, fmt.Errorf("%w: nis, name and pin are required", ErrInvalidInput)
	}

	hash, err := d.hash(pin)
	if err != nil {
		return nil, err
	}

	student := models.NewStudent(nis, name, hash)
	if err := d.store.CreateStudent(ctx, student); err != nil {
		return nil, err
	}

	slog.Info("Student created", "student_id", student.ID, "nis", student.NIS)
	return &StudentBalance{Student: student}, nil
}

// Get returns one student with its balance.
func (d *Directory) Get(ctx context.Context, id int64) (*StudentBalance, error) {
	student, err := d.store.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.withBalance(ctx, student)
}

// List returns every student, newest first, each with its balance.
func (d *Directory) List(ctx context.Context) ([]*StudentBalance, error) {
	students, err := d.store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*StudentBalance, 0, len(students))
	for _, student := range students {
		sb, err := d.withBalance(ctx, student)
		if err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	return out, nil
}

// Update applies a partial update. Fails with storage.ErrNotFound or
// storage.ErrDuplicateKey.
func (d *Directory) Update(ctx context.Context, id int64, patch StudentPatch) (*StudentBalance, error) {
	student, err := d.store.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.NIS != nil {
		nis := strings.TrimSpace(*patch.NIS)
		if nis == "" {
			return nil, fmt.Errorf("%w: nis cannot be empty", ErrInvalidInput)
		}
		student.NIS = nis
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		student.Name = name
	}
	if patch.PIN != nil && *patch.PIN != "" {
		hash, err := d.hash(*patch.PIN)
		if err != nil {
			return nil, err
		}
		student.PINHash = hash
	}

	if err := d.store.UpdateStudent(ctx, student); err != nil {
		return nil, err
	}

	slog.Info("Student updated", "student_id", student.ID, "nis", student.NIS)
	return d.withBalance(ctx, student)
}

// Delete removes a student and its whole ledger.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if err := d.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	slog.Info("Student deleted", "student_id", id)
	return nil
}

func (d *Directory) withBalance(ctx context.Context, student *models.Student) (*StudentBalance, error) {
	txs, err := d.store.ListTransactions(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return &StudentBalance{Student: student, Balance: calculator.CalculateBalance(txs)}, nil
}

func (d *Directory) hash(pin string) (string, error) {
	hash, err := d.hasher.HashCredential(pin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return hash, nil
}
