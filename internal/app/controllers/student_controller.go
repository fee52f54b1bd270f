package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/pkg/export"
	"github.com/yigit/registrar/internal/pkg/helpers"
)

// StudentController serves search, statistics and export
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Search finds students
// @Summary Search students
// @Description Every given filter must match. Without size, all matches are returned.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param matricule query string false "Matricule contains"
// @Param name query string false "First or last name contains (case-insensitive)"
// @Param gradeLevel query string false "Grade level"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /students/search [get]
func (c *StudentController) Search(ctx *gin.Context) {
	var req dto.StudentSearchRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	filter := models.SearchFilter{
		Matricule:  req.Matricule,
		Name:       req.Name,
		GradeLevel: req.GradeLevel,
	}
	page, size, paged := helpers.ParsePaginationParams(ctx)
	if paged {
		filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, size)
	}

	students, total, err := c.studentService.Search(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.StudentListResponse{Students: make([]dto.StudentResponse, 0, len(students))}
	for i := range students {
		resp.Students = append(resp.Students, dto.FromStudentSummary(&students[i]))
	}
	if !paged {
		size = len(students)
	}
	resp.PaginationInfo = helpers.NewPaginationInfo(total, page, size)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Statistics summarizes the student population
// @Summary Student statistics
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Statistics}
// @Router /statistics [get]
func (c *StudentController) Statistics(ctx *gin.Context) {
	stats, err := c.studentService.Statistics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// Export downloads every student as a spreadsheet
// @Summary Export students
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "enrollments.xlsx"
// @Router /exports/students.xlsx [get]
func (c *StudentController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.studentService.Export(ctx.Request.Context(), &buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	ctx.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
