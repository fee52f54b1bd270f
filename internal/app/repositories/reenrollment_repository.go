package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
)

// ReenrollmentRepository records grade level changes
type ReenrollmentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewReenrollmentRepository creates a new ReenrollmentRepository
func NewReenrollmentRepository(q db.Querier) *ReenrollmentRepository {
	return &ReenrollmentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a re-enrollment event and sets its ID and timestamp
func (r *ReenrollmentRepository) Create(ctx context.Context, e *models.Reenrollment) error {
	sql, args, err := r.sb.Insert("reenrollments").
		Columns("student_id", "previous_grade_level", "new_grade_level", "school_year", "created_by").
		Values(e.StudentID, e.PreviousGradeLevel, e.NewGradeLevel, e.SchoolYear, e.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert re-enrollment: %w", err)
	}
	return nil
}
