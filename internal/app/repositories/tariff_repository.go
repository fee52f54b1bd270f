package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
)

// TariffRepository reads and seeds the fee schedule
type TariffRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewTariffRepository creates a new TariffRepository
func NewTariffRepository(q db.Querier) *TariffRepository {
	return &TariffRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns every tariff ordered by id
func (r *TariffRepository) List(ctx context.Context) ([]models.Tariff, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, grade_level, enrollment_fee, monthly_fee, reenrollment_fee
		FROM tariffs
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}
	defer rows.Close()

	tariffs := make([]models.Tariff, 0, len(models.DefaultTariffs))
	for rows.Next() {
		var t models.Tariff
		if err := rows.Scan(&t.ID, &t.GradeLevel, &t.EnrollmentFee, &t.MonthlyFee, &t.ReenrollmentFee); err != nil {
			return nil, fmt.Errorf("failed to scan tariff: %w", err)
		}
		tariffs = append(tariffs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tariffs: %w", err)
	}
	return tariffs, nil
}

// InsertMissing inserts the tariffs whose grade level is not stored yet and
// returns how many rows were added. Existing fees are never overwritten.
func (r *TariffRepository) InsertMissing(ctx context.Context, tariffs []models.Tariff) (int64, error) {
	if len(tariffs) == 0 {
		return 0, nil
	}

	q := r.sb.Insert("tariffs").Columns("grade_level", "enrollment_fee", "monthly_fee", "reenrollment_fee")
	for _, t := range tariffs {
		q = q.Values(t.GradeLevel, t.EnrollmentFee, t.MonthlyFee, t.ReenrollmentFee)
	}
	sql, args, err := q.Suffix("ON CONFLICT (grade_level) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to seed tariffs: %w", err)
	}
	return tag.RowsAffected(), nil
}
