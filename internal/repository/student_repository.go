package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/stemsi/college-registration/internal/model"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicateKey reports a uniqueness violation on college_id or id_card_number.
	ErrDuplicateKey = errors.New("student with this identifier already exists")
	// ErrStorage wraps every other persistence failure.
	ErrStorage = errors.New("storage failure")
)

// Unique student columns, as named in constraint violation messages.
const (
	FieldCollegeID    = "college_id"
	FieldIDCardNumber = "id_card_number"
)

// DuplicateKeyError names the column whose uniqueness was violated.
// Field is empty when the driver message does not identify it.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}
	return fmt.Sprintf("student with this %s already exists", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// StudentRepository handles student data access. It holds no connection;
// callers pass the handle scoped to their request.
type StudentRepository struct{}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

// List returns every student ordered by name, ties broken by id.
func (r *StudentRepository) List(ctx context.Context, q DBTX) ([]model.Student, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, college_id, id_card_number, stream, mobile_number, parents_mobile_number
		 FROM students ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list students: %w", ErrStorage, err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.CollegeID, &s.IDCardNumber, &s.Stream, &s.MobileNumber, &s.ParentsMobileNumber); err != nil {
			return nil, fmt.Errorf("%w: scan student: %w", ErrStorage, err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list students: %w", ErrStorage, err)
	}
	return students, nil
}

// Count returns the number of registered students.
func (r *StudentRepository) Count(ctx context.Context, q DBTX) (int, error) {
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: count students: %w", ErrStorage, err)
	}
	return total, nil
}

// Create inserts a new student and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, q DBTX, s *model.Student) error {
	err := q.QueryRowContext(ctx,
		`INSERT INTO students (name, college_id, id_card_number, stream, mobile_number, parents_mobile_number)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		s.Name, s.CollegeID, s.IDCardNumber, s.Stream, s.MobileNumber, s.ParentsMobileNumber,
	).Scan(&s.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return &DuplicateKeyError{Field: duplicateField(err), Err: err}
		}
		return fmt.Errorf("%w: insert student: %w", ErrStorage, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// duplicateField extracts the column from "UNIQUE constraint failed: students.<column>".
func duplicateField(err error) string {
	message := err.Error()
	switch {
	case strings.Contains(message, "students."+FieldCollegeID):
		return FieldCollegeID
	case strings.Contains(message, "students."+FieldIDCardNumber):
		return FieldIDCardNumber
	default:
		return ""
	}
}
