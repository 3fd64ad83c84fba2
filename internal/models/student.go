package models

import "time"

// Student represents a savings account holder.
type Student struct {
	// ID is the database-assigned identifier.
	ID int64

	// NIS is the student's school registration number. Unique across students
	// and used as the login name.
	NIS string

	// Name is the display name.
	Name string

	// PINHash is the bcrypt hash of the student's PIN. Never the PIN itself.
	PINHash string

	// CreatedAt is the Unix timestamp when the student was enrolled.
	CreatedAt int64
}

// NewStudent creates a Student with the creation time set to now.
// The ID is assigned by the store.
func NewStudent(nis, name, pinHash string) *Student {
	return &Student{
		NIS:       nis,
		Name:      name,
		PINHash:   pinHash,
		CreatedAt: time.Now().Unix(),
	}
}
