package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
)

// ServiceRepository handles service subscriptions
type ServiceRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(q db.Querier) *ServiceRepository {
	return &ServiceRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an active subscription starting today. Empty details are stored as {}.
func (r *ServiceRepository) Create(ctx context.Context, sub *models.ServiceSubscription) error {
	details := sub.Details
	if details == "" {
		details = "{}"
	}
	status := sub.Status
	if status == "" {
		status = models.ServiceStatusActive
	}

	sql, args, err := r.sb.Insert("student_services").
		Columns("student_id", "service_type", "details", "status").
		Values(sub.StudentID, string(sub.ServiceType), json.RawMessage(details), string(status)).
		Suffix("RETURNING id, start_date").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	var start time.Time
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&sub.ID, &start); err != nil {
		return fmt.Errorf("failed to insert service %s: %w", sub.ServiceType, err)
	}
	sub.StartDate = &start
	sub.Details = details
	sub.Status = status
	return nil
}
