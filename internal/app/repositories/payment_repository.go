package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/helpers"
)

// PaymentRepository records payments
type PaymentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(q db.Querier) *PaymentRepository {
	return &PaymentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a payment and sets its ID and timestamp
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	sql, args, err := r.sb.Insert("payments").
		Columns("student_id", "payment_type", "amount", "payment_mode", "reference", "status", "created_by").
		Values(p.StudentID, string(p.PaymentType), p.Amount, p.PaymentMode, helpers.NullString(p.Reference), string(p.Status), p.CreatedBy).
		Suffix("RETURNING id, paid_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.PaidAt); err != nil {
		return fmt.Errorf("failed to insert %s payment: %w", p.PaymentType, err)
	}
	return nil
}
