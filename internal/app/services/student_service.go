package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/export"
)

// statisticsWindow is the look-back period of Statistics.NewLast30Days
const statisticsWindow = 30 * 24 * time.Hour

// StudentService defines the read side over students
type StudentService interface {
	Search(ctx context.Context, filter models.SearchFilter) ([]models.StudentSummary, int64, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	Export(ctx context.Context, w io.Writer) error
}

type studentServiceImpl struct {
	db          *db.PostgresDB
	studentRepo *repositories.StudentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentService creates a new student service instance
func NewStudentService(pdb *db.PostgresDB, studentRepo *repositories.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		db:          pdb,
		studentRepo: studentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Search returns the students matching every non-empty criterion of filter and the total match count.
// No match is an empty result, not an error.
func (s *studentServiceImpl) Search(ctx context.Context, filter models.SearchFilter) ([]models.StudentSummary, int64, error) {
	students, total, err := s.studentRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search students: %w", err)
	}
	if students == nil {
		students = []models.StudentSummary{}
	}
	return students, total, nil
}

// Statistics reads every aggregate from one snapshot so that the group counts add up to the total
func (s *studentServiceImpl) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}
	since := s.now().Add(-statisticsWindow)

	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := s.db.WithTransactionOptions(ctx, opts, func(ctx context.Context, tx pgx.Tx) error {
		repo := repositories.NewStudentRepository(tx)

		var err error
		if stats.Total, err = repo.Count(ctx); err != nil {
			return err
		}
		if stats.BySex, err = repo.CountBySex(ctx); err != nil {
			return err
		}
		if stats.ByGradeLevel, err = repo.CountByGradeLevel(ctx); err != nil {
			return err
		}
		if stats.NewLast30Days, err = repo.CountCreatedSince(ctx, since); err != nil {
			return err
		}
		if stats.ByServiceType, err = repo.CountByServiceType(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	return stats, nil
}

// Export writes the spreadsheet of every student to w
func (s *studentServiceImpl) Export(ctx context.Context, w io.Writer) error {
	students, err := s.studentRepo.ListSummaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list students for export: %w", err)
	}

	if err := export.WriteStudents(w, students); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Info().Int("students", len(students)).Msg("Student export generated")
	return nil
}
