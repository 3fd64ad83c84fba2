package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/tabungan/internal/models"
	"github.com/mmynk/tabungan/internal/storage"
)

const studentColumns = "id, nis, name, pin_hash, created_at"

// CreateStudent inserts a new student and populates its ID.
func (s *SQLStore) CreateStudent(ctx context.Context, student *models.Student) error {
	if student.CreatedAt == 0 {
		student.CreatedAt = time.Now().Unix()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		taken, err := s.nisOwner(ctx, tx, student.NIS)
		if err != nil {
			return err
		}
		if taken != 0 {
			return storage.ErrDuplicateKey
		}

		err = tx.QueryRowContext(ctx,
			s.q("INSERT INTO students (nis, name, pin_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
			student.NIS, student.Name, student.PINHash, student.CreatedAt,
		).Scan(&student.ID)
		if err != nil {
			if s.dialect.IsUniqueViolation(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("failed to insert student: %w", err)
		}
		return nil
	})
}

// GetStudent retrieves a student by ID.
func (s *SQLStore) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.getStudent(ctx, s.db, "id", id)
}

// GetStudentByNIS retrieves a student by NIS.
func (s *SQLStore) GetStudentByNIS(ctx context.Context, nis string) (*models.Student, error) {
	return s.getStudent(ctx, s.db, "nis", nis)
}

func (s *SQLStore) getStudent(ctx context.Context, q querier, column string, value any) (*models.Student, error) {
	student := &models.Student{}
	err := q.QueryRowContext(ctx,
		s.q("SELECT "+studentColumns+" FROM students WHERE "+column+" = ?"),
		value,
	).Scan(&student.ID, &student.NIS, &student.Name, &student.PINHash, &student.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student by %s: %w", column, err)
	}
	return student, nil
}

// ListStudents retrieves all students, newest first.
func (s *SQLStore) ListStudents(ctx context.Context) ([]*models.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(&student.ID, &student.NIS, &student.Name, &student.PINHash, &student.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}

	return students, nil
}

// UpdateStudent overwrites the mutable fields of an existing student.
func (s *SQLStore) UpdateStudent(ctx context.Context, student *models.Student) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getStudent(ctx, tx, "id", student.ID); err != nil {
			return err
		}

		owner, err := s.nisOwner(ctx, tx, student.NIS)
		if err != nil {
			return err
		}
		if owner != 0 && owner != student.ID {
			return storage.ErrDuplicateKey
		}

		_, err = tx.ExecContext(ctx,
			s.q("UPDATE students SET nis = ?, name = ?, pin_hash = ? WHERE id = ?"),
			student.NIS, student.Name, student.PINHash, student.ID,
		)
		if err != nil {
			if s.dialect.IsUniqueViolation(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("failed to update student: %w", err)
		}
		return nil
	})
}

// DeleteStudent removes a student together with its ledger.
func (s *SQLStore) DeleteStudent(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getStudent(ctx, tx, "id", id); err != nil {
			return err
		}

		if err := s.deleteTransactions(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.q("DELETE FROM students WHERE id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return nil
	})
}

// nisOwner returns the ID of the student holding nis, or 0 if it is free.
func (s *SQLStore) nisOwner(ctx context.Context, q querier, nis string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, s.q("SELECT id FROM students WHERE nis = ?"), nis).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check nis: %w", err)
	}
	return id, nil
}
