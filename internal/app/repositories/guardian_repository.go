package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/helpers"
)

// GuardianRepository handles guardians, their links to students and emergency contacts
type GuardianRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewGuardianRepository creates a new GuardianRepository
func NewGuardianRepository(q db.Querier) *GuardianRepository {
	return &GuardianRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a guardian and sets its ID
func (r *GuardianRepository) Create(ctx context.Context, g *models.Guardian) error {
	sql, args, err := r.sb.Insert("guardians").
		Columns("full_name", "phone", "email", "profession", "address", "relation").
		Values(g.FullName, helpers.NullString(g.Phone), helpers.NullString(g.Email),
			helpers.NullString(g.Profession), helpers.NullString(g.Address), helpers.NullString(g.Relation)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&g.ID); err != nil {
		return fmt.Errorf("failed to insert guardian: %w", err)
	}
	return nil
}

// Link attaches a guardian to a student
func (r *GuardianRepository) Link(ctx context.Context, link models.StudentGuardian) error {
	sql, args, err := r.sb.Insert("student_guardians").
		Columns("student_id", "guardian_id", "is_primary").
		Values(link.StudentID, link.GuardianID, link.IsPrimary).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to link guardian: %w", err)
	}
	return nil
}

// CreateEmergencyContact inserts a student's emergency contact
func (r *GuardianRepository) CreateEmergencyContact(ctx context.Context, c *models.EmergencyContact) error {
	sql, args, err := r.sb.Insert("emergency_contacts").
		Columns("student_id", "name", "phone", "relation").
		Values(c.StudentID, c.Name, c.Phone, helpers.NullString(c.Relation)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to insert emergency contact: %w", err)
	}
	return nil
}
