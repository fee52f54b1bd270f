package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/upload"
)

// EnrollmentController handles enrollments and re-enrollments
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	policy            upload.Policy
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, policy upload.Policy, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		policy:            policy,
		logger:            logger,
	}
}

// Enroll records a new student
// @Summary Enroll a student
// @Description Records the student, guardians, emergency contact, services, payment and documents in one transaction and assigns the matricule.
// @Description Any file part is stored as a document whose type is the part's field name (at most 5 files of 5 MB; jpg, jpeg, png, pdf, doc, docx).
// @Tags enrollments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param birth_date formData string false "Birth date (YYYY-MM-DD)"
// @Param sex formData string true "Sex" Enums(M, F)
// @Param grade_level formData string true "Grade level"
// @Param guardian1_name formData string true "Primary guardian name"
// @Param guardian2_name formData string false "Second guardian name"
// @Param emergency_name formData string true "Emergency contact name"
// @Param emergency_phone formData string true "Emergency contact phone"
// @Param services formData string false "JSON array of services, e.g. [\"transport\"]"
// @Param payment_amount formData number false "Amount paid"
// @Param payment_mode formData string true "Payment mode"
// @Param birth_certificate formData file false "Example document"
// @Success 201 {object} dto.EnrollmentResponse "Enrollment recorded"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or upload rejected"
// @Failure 401 {object} dto.ErrorResponse "Missing token"
// @Failure 403 {object} dto.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} dto.ErrorResponse "Enrollment could not be recorded"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewUploadRejectedError("", "request body too large"))
			return
		}
		c.logger.Debug().Err(err).Msg("Enrollment request is not a multipart form")
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "request must be multipart/form-data"))
		return
	}

	// uploads are checked before anything is stored
	files, err := c.policy.Validate(form)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.EnrollmentForm
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	input, err := req.ToInput(ctx.PostForm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result, err := c.enrollmentService.Enroll(ctx.Request.Context(), userID, input, files)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewEnrollmentResponse(result))
}

// Reenroll moves an existing student to a new grade level
// @Summary Re-enroll a student
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param matricule path string true "Student matricule"
// @Param request body dto.ReenrollmentRequest true "New grade level and payment"
// @Success 200 {object} dto.ReenrollmentResponse "Re-enrollment recorded"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Re-enrollment could not be recorded"
// @Router /reenrollments/{matricule} [post]
func (c *EnrollmentController) Reenroll(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.ReenrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.enrollmentService.Reenroll(ctx.Request.Context(), userID, req.ToInput(ctx.Param("matricule")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ReenrollmentResponse{
		Success:            true,
		Matricule:          result.Matricule,
		Message:            "Re-enrollment recorded",
		PreviousGradeLevel: result.PreviousGradeLevel,
		NewGradeLevel:      result.NewGradeLevel,
		SchoolYear:         result.SchoolYear,
	})
}
