package dto

import (
	"strings"

	"github.com/yigit/registrar/internal/app/models"
)

// StudentSearchRequest carries the optional search filters
type StudentSearchRequest struct {
	Matricule  string `form:"matricule" binding:"max=20"`
	Name       string `form:"name" binding:"max=100"`
	GradeLevel string `form:"gradeLevel" binding:"max=20"`
}

// StudentResponse is a search result row
type StudentResponse struct {
	ID            int64  `json:"id" example:"1"`
	Matricule     string `json:"matricule" example:"240001"`
	FirstName     string `json:"firstName" example:"Awa"`
	LastName      string `json:"lastName" example:"Diallo"`
	BirthDate     string `json:"birthDate,omitempty" example:"2018-03-14"`
	Sex           string `json:"sex" example:"F"`
	GradeLevel    string `json:"gradeLevel" example:"CP"`
	Services      string `json:"services" example:"transport,cafeteria"`
	GuardianName  string `json:"guardianName,omitempty" example:"Mariam Diallo"`
	GuardianPhone string `json:"guardianPhone,omitempty" example:"+221770000000"`
	CreatedAt     string `json:"createdAt" example:"2024-09-02T08:01:05Z"`
}

// StudentListResponse is a page of search results
type StudentListResponse struct {
	Students []StudentResponse `json:"students"`
	PaginationInfo
}

// FromStudentSummary converts a models.StudentSummary to a StudentResponse
func FromStudentSummary(s *models.StudentSummary) StudentResponse {
	resp := StudentResponse{
		ID:            s.ID,
		Matricule:     s.Matricule,
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Sex:           string(s.Sex),
		GradeLevel:    s.GradeLevel,
		Services:      JoinServices(s.Services),
		GuardianName:  s.GuardianName,
		GuardianPhone: s.GuardianPhone,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.BirthDate != nil {
		resp.BirthDate = s.BirthDate.Format("2006-01-02")
	}
	return resp
}

// JoinServices renders service types as a comma-separated list
func JoinServices(services []models.ServiceType) string {
	parts := make([]string, len(services))
	for i, s := range services {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
