package services

import (
	"context"
	"errors"
	"mime/multipart"
	"path"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/upload"
)

var fixedNow = time.Date(2024, time.October, 1, 9, 0, 0, 0, time.UTC)

const lockStudentSQL = "SELECT id, grade_level FROM students WHERE matricule = $1 FOR UPDATE"

type fakeStorage struct {
	saved   []string
	deleted []string
	// failOn makes the n-th save fail (1-based); zero never fails
	failOn int
}

func (f *fakeStorage) SaveFile(fh *multipart.FileHeader) (string, error) {
	return f.SaveFileWithPath(fh, "")
}

func (f *fakeStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (string, error) {
	if f.failOn > 0 && len(f.saved)+1 == f.failOn {
		return "", errors.New("disk full")
	}
	p := path.Join(subPath, fh.Filename)
	f.saved = append(f.saved, p)
	return p, nil
}

func (f *fakeStorage) DeleteFile(p string) error {
	f.deleted = append(f.deleted, p)
	return nil
}

func (f *fakeStorage) GetFullPath(p string) (string, error) {
	return path.Join("/srv/uploads", p), nil
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func newTestEnrollmentService(t *testing.T) (pgxmock.PgxPoolIface, *enrollmentServiceImpl, *fakeStorage) {
	t.Helper()
	mock := newMockPool(t)
	storage := &fakeStorage{}
	svc := &enrollmentServiceImpl{
		db:      db.New(mock),
		storage: storage,
		logger:  zerolog.Nop(),
		now:     func() time.Time { return fixedNow },
	}
	return mock, svc, storage
}

func validEnrollment() models.EnrollmentInput {
	return models.EnrollmentInput{
		Student: models.Student{
			FirstName:  "Awa",
			LastName:   "Diallo",
			Sex:        models.SexFemale,
			GradeLevel: "CP",
		},
		Guardian1: models.Guardian{FullName: "Moussa Diallo", Phone: "770000000", Relation: "Father"},
		Guardian2: &models.Guardian{FullName: "Fatou Sow", Relation: "Parent 2"},
		EmergencyContact: models.EmergencyContact{
			Name:  "Aminata Ba",
			Phone: "780000000",
		},
		Services: []models.ServiceSelection{
			{Type: models.ServiceTransport, Details: `{"zone":"Pikine"}`},
		},
		Payment: models.Payment{Amount: 30000, PaymentMode: "cash"},
	}
}

func testFiles() []upload.File {
	return []upload.File{
		{Field: "birth_certificate", Header: &multipart.FileHeader{Filename: "acte.pdf", Size: 1024}, MimeType: "application/pdf", Size: 1024},
		{Field: "photo", Header: &multipart.FileHeader{Filename: "photo.png", Size: 2048}, MimeType: "image/png", Size: 2048},
	}
}

// expectEnrollmentUntilPayment queues the statements that precede the payment insert
func expectEnrollmentUntilPayment(mock pgxmock.PgxPoolIface) {
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE matricule_counter").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(int64(240001)))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), fixedNow))
	mock.ExpectQuery("INSERT INTO guardians").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec("INSERT INTO student_guardians").
		WithArgs(int64(7), int64(11), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO guardians").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectExec("INSERT INTO student_guardians").
		WithArgs(int64(7), int64(12), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO emergency_contacts").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("INSERT INTO student_services").
		WillReturnRows(pgxmock.NewRows([]string{"id", "start_date"}).AddRow(int64(9), fixedNow))
}

func TestEnrollCommitsFullSequence(t *testing.T) {
	mock, svc, storage := newTestEnrollmentService(t)

	expectEnrollmentUntilPayment(mock)
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(int64(7), "enrollment", 30000.0, "cash", pgxmock.AnyArg(), "complete", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "paid_at"}).AddRow(int64(21), fixedNow))
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(int64(7), "birth_certificate", "acte.pdf", "2024/10/acte.pdf", "application/pdf", int64(1024)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(1), fixedNow))
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(int64(7), "photo", "photo.png", "2024/10/photo.png", "image/png", int64(2048)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "uploaded_at"}).AddRow(int64(2), fixedNow))
	mock.ExpectCommit()

	result, err := svc.Enroll(context.Background(), 3, validEnrollment(), testFiles())
	require.NoError(t, err)

	assert.Equal(t, "240001", result.Matricule)
	assert.Equal(t, int64(7), result.StudentID)
	require.Len(t, result.Documents, 2)
	assert.Equal(t, int64(7), result.Documents[0].StudentID)
	assert.Equal(t, []string{"2024/10/acte.pdf", "2024/10/photo.png"}, storage.saved)
	assert.Empty(t, storage.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollWithoutOptionalParts(t *testing.T) {
	mock, svc, _ := newTestEnrollmentService(t)

	in := validEnrollment()
	in.Guardian2 = nil
	in.Services = nil

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE matricule_counter").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(int64(240002)))
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), fixedNow))
	mock.ExpectQuery("INSERT INTO guardians").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(13)))
	mock.ExpectExec("INSERT INTO student_guardians").
		WithArgs(int64(8), int64(13), true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("INSERT INTO emergency_contacts").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(6)))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(pgxmock.NewRows([]string{"id", "paid_at"}).AddRow(int64(22), fixedNow))
	mock.ExpectCommit()

	result, err := svc.Enroll(context.Background(), 3, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "240002", result.Matricule)
	assert.Empty(t, result.Documents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollRollsBackAndRemovesFiles(t *testing.T) {
	mock, svc, storage := newTestEnrollmentService(t)

	expectEnrollmentUntilPayment(mock)
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnError(errors.New(`new row for relation "payments" violates check constraint "payments_amount_check"`))
	mock.ExpectRollback()

	result, err := svc.Enroll(context.Background(), 3, validEnrollment(), testFiles())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentFailed)
	assert.NotContains(t, err.Error(), "payments")

	assert.ElementsMatch(t, storage.saved, storage.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollRollsBackWhenMatriculeCannotBeReserved(t *testing.T) {
	mock, svc, storage := newTestEnrollmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE matricule_counter").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.Enroll(context.Background(), 3, validEnrollment(), testFiles())
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentFailed)
	assert.Len(t, storage.deleted, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollStorageFailureStartsNoTransaction(t *testing.T) {
	mock, svc, storage := newTestEnrollmentService(t)
	storage.failOn = 2

	_, err := svc.Enroll(context.Background(), 3, validEnrollment(), testFiles())
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentFailed)
	assert.Equal(t, []string{"2024/10/acte.pdf"}, storage.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollRejectsInvalidInputBeforeAnyWrite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *models.EnrollmentInput)
		target error
	}{
		{"missing last name", func(in *models.EnrollmentInput) { in.Student.LastName = " " }, apperrors.ErrValidationFailed},
		{"unknown sex", func(in *models.EnrollmentInput) { in.Student.Sex = "X" }, apperrors.ErrValidationFailed},
		{"unknown grade level", func(in *models.EnrollmentInput) { in.Student.GradeLevel = "Terminale" }, apperrors.ErrValidationFailed},
		{"missing guardian", func(in *models.EnrollmentInput) { in.Guardian1.FullName = "" }, apperrors.ErrValidationFailed},
		{"missing emergency phone", func(in *models.EnrollmentInput) { in.EmergencyContact.Phone = "" }, apperrors.ErrValidationFailed},
		{"negative payment", func(in *models.EnrollmentInput) { in.Payment.Amount = -1 }, apperrors.ErrValidationFailed},
		{"unknown service", func(in *models.EnrollmentInput) {
			in.Services = []models.ServiceSelection{{Type: "swimming"}}
		}, apperrors.ErrInvalidServiceType},
		{"details not an object", func(in *models.EnrollmentInput) {
			in.Services = []models.ServiceSelection{{Type: models.ServiceCafeteria, Details: `["lunch"]`}}
		}, apperrors.ErrInvalidServiceDetail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, svc, storage := newTestEnrollmentService(t)
			in := validEnrollment()
			tt.mutate(&in)

			_, err := svc.Enroll(context.Background(), 3, in, testFiles())
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, storage.saved)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func validReenrollment() models.ReenrollmentInput {
	return models.ReenrollmentInput{
		Matricule:     "240001",
		NewGradeLevel: "CE1",
		Payment:       models.Payment{Amount: 20000, PaymentMode: "mobile money", Reference: "OM-889"},
	}
}

func TestReenrollCommits(t *testing.T) {
	mock, svc, _ := newTestEnrollmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockStudentSQL)).
		WithArgs("240001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "grade_level"}).AddRow(int64(7), "CP"))
	mock.ExpectExec("UPDATE students SET grade_level").
		WithArgs("CE1", int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO reenrollments").
		WithArgs(int64(7), "CP", "CE1", "2024-2025", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), fixedNow))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(int64(7), "reenrollment", 20000.0, "mobile money", pgxmock.AnyArg(), "complete", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "paid_at"}).AddRow(int64(30), fixedNow))
	mock.ExpectCommit()

	result, err := svc.Reenroll(context.Background(), 3, validReenrollment())
	require.NoError(t, err)
	assert.Equal(t, &models.ReenrollmentResult{
		StudentID:          7,
		Matricule:          "240001",
		PreviousGradeLevel: "CP",
		NewGradeLevel:      "CE1",
		SchoolYear:         "2024-2025",
	}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReenrollUnknownMatricule(t *testing.T) {
	mock, svc, _ := newTestEnrollmentService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockStudentSQL)).
		WithArgs("249999").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	in := validReenrollment()
	in.Matricule = "249999"
	_, err := svc.Reenroll(context.Background(), 3, in)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReenrollMalformedMatriculeIsNotFound(t *testing.T) {
	mock, svc, _ := newTestEnrollmentService(t)

	in := validReenrollment()
	in.Matricule = "24x001"
	_, err := svc.Reenroll(context.Background(), 3, in)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReenrollRollsBackOnPaymentFailure(t *testing.T) {
	mock, svc, _ := newTestEnrollmentService(t)

	in := validReenrollment()
	in.PreviousGradeLevel = "CI"
	in.SchoolYear = "2025-2026"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockStudentSQL)).
		WithArgs("240001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "grade_level"}).AddRow(int64(7), "CP"))
	mock.ExpectExec("UPDATE students SET grade_level").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO reenrollments").
		WithArgs(int64(7), "CI", "CE1", "2025-2026", int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), fixedNow))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Reenroll(context.Background(), 3, in)
	assert.ErrorIs(t, err, apperrors.ErrReenrollmentFailed)
	assert.NotErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReenrollValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *models.ReenrollmentInput)
	}{
		{"unknown new grade", func(in *models.ReenrollmentInput) { in.NewGradeLevel = "Licence" }},
		{"unknown previous grade", func(in *models.ReenrollmentInput) { in.PreviousGradeLevel = "Licence" }},
		{"school year not consecutive", func(in *models.ReenrollmentInput) { in.SchoolYear = "2024-2026" }},
		{"missing payment mode", func(in *models.ReenrollmentInput) { in.Payment.PaymentMode = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, svc, _ := newTestEnrollmentService(t)
			in := validReenrollment()
			tt.mutate(&in)

			_, err := svc.Reenroll(context.Background(), 3, in)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
