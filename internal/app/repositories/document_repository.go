package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
)

// DocumentRepository stores uploaded document metadata
type DocumentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(q db.Querier) *DocumentRepository {
	return &DocumentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a document row and sets its ID and upload time
func (r *DocumentRepository) Create(ctx context.Context, d *models.Document) error {
	sql, args, err := r.sb.Insert("documents").
		Columns("student_id", "document_type", "filename", "path", "mime_type", "size_bytes").
		Values(d.StudentID, d.DocumentType, d.Filename, d.Path, d.MimeType, d.SizeBytes).
		Suffix("RETURNING id, uploaded_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&d.ID, &d.UploadedAt); err != nil {
		return fmt.Errorf("failed to insert document %s: %w", d.DocumentType, err)
	}
	return nil
}
