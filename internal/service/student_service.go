package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/model"
	"github.com/stemsi/college-registration/internal/repository"
	"github.com/stemsi/college-registration/internal/validator"
)

// ErrValidation marks a submission that is missing required fields.
var ErrValidation = errors.New("validation failed")

// ValidationError carries per-field messages keyed by form name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "All fields are required! (missing: " + strings.Join(e.FieldNames(), ", ") + ")"
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FieldNames returns the offending fields in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StudentService handles student registration rules.
type StudentService struct {
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{studentRepo: studentRepo, log: log}
}

// ListStudents returns every student ordered by name.
func (s *StudentService) ListStudents(ctx context.Context, q repository.DBTX) ([]model.Student, error) {
	return s.studentRepo.List(ctx, q)
}

// CountStudents returns the number of registered students.
func (s *StudentService) CountStudents(ctx context.Context, q repository.DBTX) (int, error) {
	return s.studentRepo.Count(ctx, q)
}

// Register trims and validates req, then inserts the student.
// Errors match ErrValidation, repository.ErrDuplicateKey or repository.ErrStorage.
func (s *StudentService) Register(ctx context.Context, q repository.DBTX, req *model.CreateStudentRequest) (*model.Student, error) {
	req.Normalize()
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	student := req.Student()
	if err := s.studentRepo.Create(ctx, q, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, err
		}
		return nil, fmt.Errorf("register student %s: %w", student.CollegeID, err)
	}

	s.log.Info().
		Int64("student_id", student.ID).
		Str("college_id", student.CollegeID).
		Msg("Student registered")

	return student, nil
}
