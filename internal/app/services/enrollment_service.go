package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/dberrors"
	"github.com/yigit/registrar/internal/pkg/filestorage"
	"github.com/yigit/registrar/internal/pkg/helpers"
	"github.com/yigit/registrar/internal/pkg/upload"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// EnrollmentService records new students and moves existing ones to a new grade level
type EnrollmentService interface {
	Enroll(ctx context.Context, userID int64, input models.EnrollmentInput, files []upload.File) (*models.EnrollmentResult, error)
	Reenroll(ctx context.Context, userID int64, input models.ReenrollmentInput) (*models.ReenrollmentResult, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	db      *db.PostgresDB
	storage filestorage.FileStorage
	logger  zerolog.Logger
	now     func() time.Time
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(pdb *db.PostgresDB, storage filestorage.FileStorage, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		db:      pdb,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Enroll stores the uploaded documents, then writes the student and everything
// attached to it in a single transaction. Any failure rolls the whole sequence
// back, removes the stored files and returns ErrEnrollmentFailed.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, userID int64, in models.EnrollmentInput, files []upload.File) (*models.EnrollmentResult, error) {
	if err := validateEnrollment(&in); err != nil {
		return nil, err
	}

	docs, err := s.storeDocuments(files)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to store enrollment documents")
		return nil, apperrors.ErrEnrollmentFailed
	}

	var result *models.EnrollmentResult
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		r, err := enroll(ctx, repositories.NewRepositories(tx), userID, &in, docs)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		s.removeDocuments(docs)
		s.logger.Error().Err(err).
			Int64("userId", userID).
			Str("gradeLevel", in.Student.GradeLevel).
			Int("documents", len(docs)).
			Bool("constraintViolation", dberrors.IsConstraintViolation(err)).
			Str("constraint", dberrors.ConstraintName(err)).
			Msg("Enrollment transaction rolled back")
		return nil, apperrors.ErrEnrollmentFailed
	}

	s.logger.Info().
		Str("matricule", result.Matricule).
		Int64("studentId", result.StudentID).
		Int64("userId", userID).
		Msg("Student enrolled")
	return result, nil
}

// enroll runs the insert sequence; repos are bound to the transaction
func enroll(ctx context.Context, repos *repositories.Repositories, userID int64, in *models.EnrollmentInput, docs []models.Document) (*models.EnrollmentResult, error) {
	matricule, err := repos.StudentRepository.NextMatricule(ctx)
	if err != nil {
		return nil, err
	}

	student := in.Student
	student.Matricule = matricule
	student.CreatedBy = userID
	if err := repos.StudentRepository.Create(ctx, &student); err != nil {
		return nil, err
	}

	guardian1 := in.Guardian1
	if err := repos.GuardianRepository.Create(ctx, &guardian1); err != nil {
		return nil, fmt.Errorf("guardian 1: %w", err)
	}
	if err := repos.GuardianRepository.Link(ctx, models.StudentGuardian{StudentID: student.ID, GuardianID: guardian1.ID, IsPrimary: true}); err != nil {
		return nil, fmt.Errorf("guardian 1: %w", err)
	}

	if in.Guardian2 != nil {
		guardian2 := *in.Guardian2
		if err := repos.GuardianRepository.Create(ctx, &guardian2); err != nil {
			return nil, fmt.Errorf("guardian 2: %w", err)
		}
		if err := repos.GuardianRepository.Link(ctx, models.StudentGuardian{StudentID: student.ID, GuardianID: guardian2.ID}); err != nil {
			return nil, fmt.Errorf("guardian 2: %w", err)
		}
	}

	contact := in.EmergencyContact
	contact.StudentID = student.ID
	if err := repos.GuardianRepository.CreateEmergencyContact(ctx, &contact); err != nil {
		return nil, err
	}

	for _, sel := range in.Services {
		sub := models.ServiceSubscription{
			StudentID:   student.ID,
			ServiceType: sel.Type,
			Details:     sel.Details,
			Status:      models.ServiceStatusActive,
		}
		if err := repos.ServiceRepository.Create(ctx, &sub); err != nil {
			return nil, err
		}
	}

	payment := in.Payment
	payment.StudentID = student.ID
	payment.PaymentType = models.PaymentTypeEnrollment
	payment.Status = models.PaymentStatusComplete
	payment.CreatedBy = userID
	if err := repos.PaymentRepository.Create(ctx, &payment); err != nil {
		return nil, err
	}

	stored := make([]models.Document, 0, len(docs))
	for _, d := range docs {
		d.StudentID = student.ID
		if err := repos.DocumentRepository.Create(ctx, &d); err != nil {
			return nil, err
		}
		stored = append(stored, d)
	}

	return &models.EnrollmentResult{
		StudentID: student.ID,
		Matricule: matricule,
		Documents: stored,
	}, nil
}

// storeDocuments saves every accepted file under a year/month directory.
// Files already saved are removed if a later one fails.
func (s *enrollmentServiceImpl) storeDocuments(files []upload.File) ([]models.Document, error) {
	subPath := s.now().Format("2006/01")
	docs := make([]models.Document, 0, len(files))
	for _, f := range files {
		path, err := s.storage.SaveFileWithPath(f.Header, subPath)
		if err != nil {
			s.removeDocuments(docs)
			return nil, fmt.Errorf("save %s: %w", f.Field, err)
		}
		docs = append(docs, models.Document{
			DocumentType: f.Field,
			Filename:     f.Filename(),
			Path:         path,
			MimeType:     f.MimeType,
			SizeBytes:    f.Size,
		})
	}
	return docs, nil
}

func (s *enrollmentServiceImpl) removeDocuments(docs []models.Document) {
	for _, d := range docs {
		if err := s.storage.DeleteFile(d.Path); err != nil {
			s.logger.Warn().Err(err).Str("path", d.Path).Msg("Failed to remove orphaned document")
		}
	}
}

// Reenroll locks the student row, updates its grade level and records the
// re-enrollment with its payment. An unknown matricule returns ErrStudentNotFound;
// any other failure returns ErrReenrollmentFailed.
func (s *enrollmentServiceImpl) Reenroll(ctx context.Context, userID int64, in models.ReenrollmentInput) (*models.ReenrollmentResult, error) {
	if !validation.IsMatricule(in.Matricule) {
		return nil, apperrors.ErrStudentNotFound
	}
	if err := validateReenrollment(&in); err != nil {
		return nil, err
	}
	if in.SchoolYear == "" {
		in.SchoolYear = helpers.SchoolYear(s.now())
	}

	var result *models.ReenrollmentResult
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := repositories.NewRepositories(tx)

		student, err := repos.StudentRepository.LockByMatricule(ctx, in.Matricule)
		if err != nil {
			return err
		}

		previous := in.PreviousGradeLevel
		if previous == "" {
			previous = student.GradeLevel
		}

		if err := repos.StudentRepository.UpdateGradeLevel(ctx, student.ID, in.NewGradeLevel); err != nil {
			return err
		}

		if err := repos.ReenrollmentRepository.Create(ctx, &models.Reenrollment{
			StudentID:          student.ID,
			PreviousGradeLevel: previous,
			NewGradeLevel:      in.NewGradeLevel,
			SchoolYear:         in.SchoolYear,
			CreatedBy:          userID,
		}); err != nil {
			return err
		}

		payment := in.Payment
		payment.StudentID = student.ID
		payment.PaymentType = models.PaymentTypeReenrollment
		payment.Status = models.PaymentStatusComplete
		payment.CreatedBy = userID
		if err := repos.PaymentRepository.Create(ctx, &payment); err != nil {
			return err
		}

		result = &models.ReenrollmentResult{
			StudentID:          student.ID,
			Matricule:          in.Matricule,
			PreviousGradeLevel: previous,
			NewGradeLevel:      in.NewGradeLevel,
			SchoolYear:         in.SchoolYear,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		s.logger.Error().Err(err).
			Str("matricule", in.Matricule).
			Int64("userId", userID).
			Msg("Re-enrollment transaction rolled back")
		return nil, apperrors.ErrReenrollmentFailed
	}

	s.logger.Info().
		Str("matricule", result.Matricule).
		Str("from", result.PreviousGradeLevel).
		Str("to", result.NewGradeLevel).
		Str("schoolYear", result.SchoolYear).
		Msg("Student re-enrolled")
	return result, nil
}

// validateEnrollment rejects input the database would refuse, before any file is stored
func validateEnrollment(in *models.EnrollmentInput) error {
	switch {
	case strings.TrimSpace(in.Student.FirstName) == "" || strings.TrimSpace(in.Student.LastName) == "":
		return apperrors.NewValidationError("student first and last name are required")
	case !in.Student.Sex.Valid():
		return apperrors.NewValidationError("sex must be M or F")
	case !models.IsGradeLevel(in.Student.GradeLevel):
		return apperrors.NewValidationError(fmt.Sprintf("unknown grade level %q", in.Student.GradeLevel))
	case strings.TrimSpace(in.Guardian1.FullName) == "":
		return apperrors.NewValidationError("guardian 1 name is required")
	case strings.TrimSpace(in.EmergencyContact.Name) == "" || strings.TrimSpace(in.EmergencyContact.Phone) == "":
		return apperrors.NewValidationError("emergency contact name and phone are required")
	}
	if err := validatePayment(&in.Payment); err != nil {
		return err
	}

	for _, sel := range in.Services {
		if _, ok := models.ParseServiceType(string(sel.Type)); !ok {
			return apperrors.NewCustomError(apperrors.ErrInvalidServiceType, fmt.Sprintf("unknown service %q", sel.Type))
		}
		if sel.Details == "" {
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(sel.Details), &obj); err != nil || obj == nil {
			return apperrors.NewCustomError(apperrors.ErrInvalidServiceDetail, string(sel.Type)+" details must be a JSON object")
		}
	}
	return nil
}

func validateReenrollment(in *models.ReenrollmentInput) error {
	if !models.IsGradeLevel(in.NewGradeLevel) {
		return apperrors.NewValidationError(fmt.Sprintf("unknown grade level %q", in.NewGradeLevel))
	}
	if in.PreviousGradeLevel != "" && !models.IsGradeLevel(in.PreviousGradeLevel) {
		return apperrors.NewValidationError(fmt.Sprintf("unknown grade level %q", in.PreviousGradeLevel))
	}
	if in.SchoolYear != "" && !validation.IsSchoolYear(in.SchoolYear) {
		return apperrors.NewValidationError("school year must look like 2024-2025")
	}
	return validatePayment(&in.Payment)
}

func validatePayment(p *models.Payment) error {
	if p.Amount < 0 {
		return apperrors.NewValidationError("payment amount cannot be negative")
	}
	if strings.TrimSpace(p.PaymentMode) == "" {
		return apperrors.NewValidationError("payment mode is required")
	}
	return nil
}
