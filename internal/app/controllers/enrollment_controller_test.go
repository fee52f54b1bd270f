package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/upload"
	"github.com/yigit/registrar/internal/pkg/validation"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

type fakeEnrollmentService struct {
	enrollCalls   int
	lastInput     models.EnrollmentInput
	lastFiles     []upload.File
	lastReenroll  models.ReenrollmentInput
	enrollErr     error
	reenrollErr   error
	reenrollCalls int
}

func (f *fakeEnrollmentService) Enroll(_ context.Context, _ int64, in models.EnrollmentInput, files []upload.File) (*models.EnrollmentResult, error) {
	f.enrollCalls++
	f.lastInput = in
	f.lastFiles = files
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	return &models.EnrollmentResult{StudentID: 1, Matricule: "240001"}, nil
}

func (f *fakeEnrollmentService) Reenroll(_ context.Context, _ int64, in models.ReenrollmentInput) (*models.ReenrollmentResult, error) {
	f.reenrollCalls++
	f.lastReenroll = in
	if f.reenrollErr != nil {
		return nil, f.reenrollErr
	}
	return &models.ReenrollmentResult{
		StudentID:          1,
		Matricule:          in.Matricule,
		PreviousGradeLevel: "CP",
		NewGradeLevel:      in.NewGradeLevel,
		SchoolYear:         "2024-2025",
	}, nil
}

// withUser stands in for JWTAuth
func withUser(c *gin.Context) {
	c.Set(middleware.ContextUserID, int64(3))
	c.Set(middleware.ContextRole, string(models.RoleSecretary))
	c.Next()
}

func newEnrollmentRouter(svc *fakeEnrollmentService) *gin.Engine {
	ctrl := NewEnrollmentController(svc, upload.DefaultPolicy(), zerolog.Nop())
	r := gin.New()
	r.POST("/enrollments", withUser, ctrl.Enroll)
	r.POST("/reenrollments/:matricule", withUser, ctrl.Reenroll)
	return r
}

type filePart struct {
	field, filename, contentType string
	content                      []byte
}

func validFields() map[string]string {
	return map[string]string{
		"first_name":        "Awa",
		"last_name":         "Diallo",
		"birth_date":        "2018-03-14",
		"sex":               "F",
		"grade_level":       "CP",
		"guardian1_name":    "Moussa Diallo",
		"guardian1_phone":   "770000000",
		"guardian2_name":    "Fatou Sow",
		"emergency_name":    "Aminata Ba",
		"emergency_phone":   "780000000",
		"services":          `["transport","cantine"]`,
		"transport_details": `{"zone":"Pikine"}`,
		"payment_amount":    "30000",
		"payment_mode":      "cash",
	}
}

func multipartRequest(t *testing.T, fields map[string]string, files ...filePart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/enrollments", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestEnrollSuccess(t *testing.T) {
	svc := &fakeEnrollmentService{}
	router := newEnrollmentRouter(svc)

	req := multipartRequest(t, validFields(), filePart{"birth_certificate", "acte.pdf", "application/pdf", pdfBytes})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "240001", resp.Matricule)

	require.Equal(t, 1, svc.enrollCalls)
	in := svc.lastInput
	assert.Equal(t, "Awa", in.Student.FirstName)
	require.NotNil(t, in.Student.BirthDate)
	assert.Equal(t, "2018-03-14", in.Student.BirthDate.Format("2006-01-02"))
	require.NotNil(t, in.Guardian2)
	assert.Equal(t, "Parent 2", in.Guardian2.Relation)
	assert.Equal(t, []models.ServiceSelection{
		{Type: models.ServiceTransport, Details: `{"zone":"Pikine"}`},
		{Type: models.ServiceCafeteria, Details: "{}"},
	}, in.Services)
	assert.Equal(t, 30000.0, in.Payment.Amount)

	require.Len(t, svc.lastFiles, 1)
	assert.Equal(t, "birth_certificate", svc.lastFiles[0].Field)
}

func TestEnrollRejectedUploadNeverReachesService(t *testing.T) {
	six := make([]filePart, 6)
	for i := range six {
		six[i] = filePart{fmt.Sprintf("doc%d", i), "scan.pdf", "application/pdf", pdfBytes}
	}

	tests := []struct {
		name  string
		files []filePart
		field string
	}{
		{"disallowed extension", []filePart{{"photo", "virus.exe", "application/octet-stream", []byte("MZ\x90\x00")}}, "photo"},
		{"declared type mismatch", []filePart{{"photo", "photo.png", "application/pdf", pdfBytes}}, "photo"},
		{"content mismatch", []filePart{{"photo", "photo.png", "image/png", pdfBytes}}, "photo"},
		{"too many files", six, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEnrollmentService{}
			router := newEnrollmentRouter(svc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, validFields(), tt.files...))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w.Body)
			assert.Equal(t, dto.ErrorCodeUploadRejected, resp.Error.Code)
			assert.Equal(t, tt.field, resp.Error.Field)
			assert.Zero(t, svc.enrollCalls)
		})
	}
}

func TestEnrollFormValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		code   dto.ErrorCode
	}{
		{"missing first name", func(f map[string]string) { delete(f, "first_name") }, dto.ErrorCodeValidationFailed},
		{"bad sex", func(f map[string]string) { f["sex"] = "X" }, dto.ErrorCodeValidationFailed},
		{"unknown grade", func(f map[string]string) { f["grade_level"] = "Terminale" }, dto.ErrorCodeValidationFailed},
		{"services not json", func(f map[string]string) { f["services"] = "transport" }, dto.ErrorCodeValidationFailed},
		{"unknown service", func(f map[string]string) { f["services"] = `["swimming"]` }, dto.ErrorCodeValidationFailed},
		{"details not an object", func(f map[string]string) { f["transport_details"] = `"Pikine"` }, dto.ErrorCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEnrollmentService{}
			router := newEnrollmentRouter(svc)

			fields := validFields()
			tt.mutate(fields)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, multipartRequest(t, fields))

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w.Body).Error.Code)
			assert.Zero(t, svc.enrollCalls)
		})
	}
}

func TestEnrollNotMultipart(t *testing.T) {
	svc := &fakeEnrollmentService{}
	router := newEnrollmentRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/enrollments", strings.NewReader(`{"first_name":"Awa"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.enrollCalls)
}

func TestEnrollServiceFailureIsGeneric(t *testing.T) {
	svc := &fakeEnrollmentService{enrollErr: apperrors.ErrEnrollmentFailed}
	router := newEnrollmentRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartRequest(t, validFields()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeDatabaseError, decodeError(t, w.Body).Error.Code)
}

func TestReenroll(t *testing.T) {
	svc := &fakeEnrollmentService{}
	router := newEnrollmentRouter(svc)

	body := `{"newGradeLevel":"CE1","schoolYear":"2024-2025","paymentAmount":20000,"paymentMode":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/reenrollments/240001", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.ReenrollmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "CE1", resp.NewGradeLevel)

	assert.Equal(t, "240001", svc.lastReenroll.Matricule)
	assert.Equal(t, models.PaymentTypeReenrollment, svc.lastReenroll.Payment.PaymentType)
}

func TestReenrollErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		svcErr error
		status int
		calls  int
	}{
		{"unknown student", `{"newGradeLevel":"CE1","paymentMode":"cash"}`, apperrors.ErrStudentNotFound, http.StatusNotFound, 1},
		{"transaction failure", `{"newGradeLevel":"CE1","paymentMode":"cash"}`, apperrors.ErrReenrollmentFailed, http.StatusInternalServerError, 1},
		{"bad school year", `{"newGradeLevel":"CE1","schoolYear":"2024","paymentMode":"cash"}`, nil, http.StatusBadRequest, 0},
		{"missing grade", `{"paymentMode":"cash"}`, nil, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEnrollmentService{reenrollErr: tt.svcErr}
			router := newEnrollmentRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/reenrollments/240001", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.calls, svc.reenrollCalls)
		})
	}
}
