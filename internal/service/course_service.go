package service

import (
	"context"
	"errors"
	"fmt"

	"coursecatalog/internal/apperr"
	"coursecatalog/internal/model"
	"coursecatalog/internal/repository"

	"github.com/go-playground/validator/v10"
)

// CourseService defines the admin-facing course operations
type CourseService interface {
	// CreateCourse validates and persists a new course
	CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error)
	// UpdateCourse fully replaces the course stored under code
	UpdateCourse(ctx context.Context, code string, c *model.Course) (*model.Course, error)
	// DeleteCourse deletes a course by its code
	DeleteCourse(ctx context.Context, code string) error
}

// courseService is the implementation of CourseService
type courseService struct {
	repo     repository.CourseRepository
	validate *validator.Validate
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, validate *validator.Validate) CourseService {
	return &courseService{repo: repo, validate: validate}
}

// CreateCourse validates the record and persists it. Nothing is written when
// validation fails.
func (s *courseService) CreateCourse(ctx context.Context, c *model.Course) (*model.Course, error) {
	if err := s.validateCourse(c); err != nil {
		return nil, err
	}
	c.Normalize()
	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCourse replaces the stored record wholesale. Existence is resolved
// before the new body is validated, so a wrong code reports not-found even
// when the body is also invalid.
func (s *courseService) UpdateCourse(ctx context.Context, code string, c *model.Course) (*model.Course, error) {
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.ErrCourseNotFound
	}
	if c.CourseCode != code {
		return nil, apperr.ErrCodeMismatch
	}
	if err := s.validateCourse(c); err != nil {
		return nil, err
	}
	c.Normalize()
	if err := s.repo.Replace(ctx, code, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCourse deletes a course by its code
func (s *courseService) DeleteCourse(ctx context.Context, code string) error {
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.ErrCourseNotFound
	}
	return s.repo.Remove(ctx, code)
}

// validateCourse runs the struct tags and translates the result into the
// field-level error shape surfaced to callers.
func (s *courseService) validateCourse(c *model.Course) error {
	err := s.validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("course validation: %w", err)
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: describeRule(fe),
		})
	}
	return &apperr.ValidationError{Fields: fields}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "ltefield":
		return "must not exceed " + fe.Param()
	default:
		return "is invalid"
	}
}
