package repository

import (
	"context"
	"database/sql"
	"errors"

	"coursecatalog/internal/apperr"
	"coursecatalog/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// CourseRepository defines the interface for interacting with the course store
type CourseRepository interface {
	// Insert persists a new course. Fails with apperr.ErrDuplicateCourse when
	// the course code is already taken.
	Insert(ctx context.Context, c *model.Course) error
	// Replace fully overwrites the course stored under code. Fails with
	// apperr.ErrCourseNotFound when the code is absent.
	Replace(ctx context.Context, code string, c *model.Course) error
	// Remove deletes the course stored under code.
	Remove(ctx context.Context, code string) error
	// GetByCode retrieves a course by its code, or nil when absent.
	GetByCode(ctx context.Context, code string) (*model.Course, error)
	// All returns a snapshot of every stored course.
	All(ctx context.Context) ([]model.Course, error)
}

type courseRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCourseRepo creates a new CourseRepository backed by Postgres
func NewCourseRepo(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepo{db: db, logger: logger.With().Str("repository", "CourseRepository").Logger()}
}

const courseColumns = `
	category, course_code, course_name, subtitle, image, banner,
	details, description, preview, duration, instructor,
	students, rating, reviews, fees, skills, eligibility, benefits,
	features, syllabus, certificate, created_at, updated_at
`

func scanCourse(row interface{ Scan(dest ...any) error }, c *model.Course) error {
	return row.Scan(
		&c.Category,
		&c.CourseCode,
		&c.CourseName,
		&c.Subtitle,
		&c.Image,
		&c.Banner,
		&c.Details,
		&c.Description,
		&c.Preview,
		&c.Duration,
		&c.Instructor,
		&c.Students,
		&c.Rating,
		&c.Reviews,
		&c.Fees,
		&c.Skills,
		&c.Eligibility,
		&c.Benefits,
		&c.Features,
		&c.Syllabus,
		&c.Certificate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// Insert persists a new course and fills in generated timestamps
func (r *courseRepo) Insert(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (
			category, course_code, course_name, subtitle, image, banner,
			details, description, preview, duration, instructor,
			students, rating, reviews, fees, skills, eligibility, benefits,
			features, syllabus, certificate
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.Category, c.CourseCode, c.CourseName, c.Subtitle, c.Image, c.Banner,
		c.Details, c.Description, c.Preview, c.Duration, c.Instructor,
		c.Students, c.Rating, c.Reviews, c.Fees, c.Skills, c.Eligibility,
		c.Benefits, c.Features, c.Syllabus, c.Certificate,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateCourse
		}
		r.logger.Error().Err(err).Str("course_code", c.CourseCode).Msg("Failed to insert course")
		return apperr.Storage(err)
	}
	return nil
}

// Replace fully overwrites the record stored under code, not a field merge
func (r *courseRepo) Replace(ctx context.Context, code string, c *model.Course) error {
	query := `
		UPDATE courses SET
			category = $2, course_name = $3, subtitle = $4, image = $5,
			banner = $6, details = $7, description = $8, preview = $9,
			duration = $10, instructor = $11, students = $12, rating = $13,
			reviews = $14, fees = $15, skills = $16, eligibility = $17,
			benefits = $18, features = $19, syllabus = $20, certificate = $21,
			updated_at = NOW()
		WHERE course_code = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		code, c.Category, c.CourseName, c.Subtitle, c.Image, c.Banner,
		c.Details, c.Description, c.Preview, c.Duration, c.Instructor,
		c.Students, c.Rating, c.Reviews, c.Fees, c.Skills, c.Eligibility,
		c.Benefits, c.Features, c.Syllabus, c.Certificate,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrCourseNotFound
		}
		r.logger.Error().Err(err).Str("course_code", code).Msg("Failed to replace course")
		return apperr.Storage(err)
	}
	return nil
}

// Remove deletes the course stored under code
func (r *courseRepo) Remove(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE course_code = $1`, code)
	if err != nil {
		r.logger.Error().Err(err).Str("course_code", code).Msg("Failed to delete course")
		return apperr.Storage(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(err)
	}
	if affected == 0 {
		return apperr.ErrCourseNotFound
	}
	return nil
}

// GetByCode retrieves a course by its code; a missing code is not an error
func (r *courseRepo) GetByCode(ctx context.Context, code string) (*model.Course, error) {
	var c model.Course
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_code = $1`
	err := scanCourse(r.db.QueryRowContext(ctx, query, code), &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("course_code", code).Msg("Failed to get course")
		return nil, apperr.Storage(err)
	}
	return &c, nil
}

// All returns every stored course, ordered by creation time for stable output
func (r *courseRepo) All(ctx context.Context) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at ASC, course_code ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to list courses")
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, apperr.Storage(err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err)
	}
	return courses, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
