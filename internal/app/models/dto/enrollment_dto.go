package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// EnrollmentForm is the text part of the multipart enrollment request.
// Files travel as additional parts under any field name; the field name becomes the document type.
type EnrollmentForm struct {
	FirstName         string `form:"first_name" binding:"required,max=100"`
	LastName          string `form:"last_name" binding:"required,max=100"`
	BirthDate         string `form:"birth_date" binding:"omitempty,datetime=2006-01-02" example:"2018-03-14"`
	Sex               string `form:"sex" binding:"required,sex" enums:"M,F"`
	Nationality       string `form:"nationality" binding:"max=100"`
	Birthplace        string `form:"birthplace" binding:"max=100"`
	GradeLevel        string `form:"grade_level" binding:"required,gradelevel" example:"CP"`
	PreviousSchool    string `form:"previous_school" binding:"max=200"`
	BloodGroup        string `form:"blood_group" binding:"max=5"`
	MedicalConditions string `form:"medical_conditions"`
	Medications       string `form:"medications"`
	PhysicianName     string `form:"physician_name" binding:"max=100"`

	Guardian1Name       string `form:"guardian1_name" binding:"required,max=150"`
	Guardian1Phone      string `form:"guardian1_phone" binding:"max=30"`
	Guardian1Email      string `form:"guardian1_email" binding:"omitempty,email"`
	Guardian1Profession string `form:"guardian1_profession" binding:"max=100"`
	Guardian1Address    string `form:"guardian1_address"`
	Guardian1Relation   string `form:"guardian1_relation" binding:"max=50"`

	Guardian2Name       string `form:"guardian2_name" binding:"max=150"`
	Guardian2Phone      string `form:"guardian2_phone" binding:"max=30"`
	Guardian2Email      string `form:"guardian2_email" binding:"omitempty,email"`
	Guardian2Profession string `form:"guardian2_profession" binding:"max=100"`
	Guardian2Address    string `form:"guardian2_address"`
	Guardian2Relation   string `form:"guardian2_relation" binding:"max=50"`

	EmergencyName     string `form:"emergency_name" binding:"required,max=150"`
	EmergencyPhone    string `form:"emergency_phone" binding:"required,max=30"`
	EmergencyRelation string `form:"emergency_relation" binding:"max=50"`

	// Services is a JSON array of service names, e.g. ["transport","cafeteria"]
	Services string `form:"services" example:"[\"transport\"]"`

	PaymentAmount    float64 `form:"payment_amount" binding:"min=0" example:"30000"`
	PaymentMode      string  `form:"payment_mode" binding:"required,max=30" example:"cash"`
	PaymentReference string  `form:"payment_reference" binding:"max=100"`
}

// defaultSecondGuardianRelation labels guardian 2 when no relation is given
const defaultSecondGuardianRelation = "Parent 2"

// ToInput builds the enrollment command. formValue returns the raw value of any
// other form field and is used for the per-service "<type>_details" objects.
func (f *EnrollmentForm) ToInput(formValue func(string) string) (models.EnrollmentInput, error) {
	in := models.EnrollmentInput{
		Student: models.Student{
			FirstName:         strings.TrimSpace(f.FirstName),
			LastName:          strings.TrimSpace(f.LastName),
			Sex:               models.Sex(f.Sex),
			Nationality:       f.Nationality,
			Birthplace:        f.Birthplace,
			GradeLevel:        f.GradeLevel,
			PreviousSchool:    f.PreviousSchool,
			BloodGroup:        f.BloodGroup,
			MedicalConditions: f.MedicalConditions,
			Medications:       f.Medications,
			PhysicianName:     f.PhysicianName,
		},
		Guardian1: models.Guardian{
			FullName:   strings.TrimSpace(f.Guardian1Name),
			Phone:      f.Guardian1Phone,
			Email:      f.Guardian1Email,
			Profession: f.Guardian1Profession,
			Address:    f.Guardian1Address,
			Relation:   f.Guardian1Relation,
		},
		EmergencyContact: models.EmergencyContact{
			Name:     strings.TrimSpace(f.EmergencyName),
			Phone:    f.EmergencyPhone,
			Relation: f.EmergencyRelation,
		},
		Payment: models.Payment{
			PaymentType: models.PaymentTypeEnrollment,
			Amount:      f.PaymentAmount,
			PaymentMode: f.PaymentMode,
			Reference:   f.PaymentReference,
		},
	}

	if f.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", f.BirthDate)
		if err != nil {
			return in, apperrors.NewValidationError("birth_date must be formatted as YYYY-MM-DD")
		}
		in.Student.BirthDate = &bd
	}

	if name := strings.TrimSpace(f.Guardian2Name); name != "" {
		relation := f.Guardian2Relation
		if relation == "" {
			relation = defaultSecondGuardianRelation
		}
		in.Guardian2 = &models.Guardian{
			FullName:   name,
			Phone:      f.Guardian2Phone,
			Email:      f.Guardian2Email,
			Profession: f.Guardian2Profession,
			Address:    f.Guardian2Address,
			Relation:   relation,
		}
	}

	services, err := ParseServices(f.Services, formValue)
	if err != nil {
		return in, err
	}
	in.Services = services

	return in, nil
}

// ParseServices decodes the JSON array of service names and attaches each
// service's details object, read from "<name>_details". Unknown names and
// non-object details are rejected; repeated services are kept once.
func ParseServices(raw string, formValue func(string) string) ([]models.ServiceSelection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "services must be a JSON array of service names")
	}

	seen := make(map[models.ServiceType]bool, len(names))
	selections := make([]models.ServiceSelection, 0, len(names))
	for _, name := range names {
		st, ok := models.ParseServiceType(name)
		if !ok {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidServiceType, fmt.Sprintf("unknown service %q", name)).
				WithDetails(map[string]interface{}{"field": "services"})
		}
		if seen[st] {
			continue
		}
		seen[st] = true

		details, err := serviceDetails(name, st, formValue)
		if err != nil {
			return nil, err
		}
		selections = append(selections, models.ServiceSelection{Type: st, Details: details})
	}
	return selections, nil
}

func serviceDetails(name string, st models.ServiceType, formValue func(string) string) (string, error) {
	if formValue == nil {
		return "{}", nil
	}
	field := name + "_details"
	raw := strings.TrimSpace(formValue(field))
	if raw == "" && name != string(st) {
		field = string(st) + "_details"
		raw = strings.TrimSpace(formValue(field))
	}
	if raw == "" {
		return "{}", nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return "", apperrors.NewCustomError(apperrors.ErrInvalidServiceDetail, field+" must be a JSON object").
			WithDetails(map[string]interface{}{"field": field})
	}
	return raw, nil
}

// DocumentResponse describes a stored document
type DocumentResponse struct {
	DocumentType string `json:"documentType" example:"birth_certificate"`
	Filename     string `json:"filename" example:"acte.pdf"`
	MimeType     string `json:"mimeType" example:"application/pdf"`
	SizeBytes    int64  `json:"sizeBytes" example:"183204"`
}

// EnrollmentResponse is returned by a successful enrollment
type EnrollmentResponse struct {
	Success   bool               `json:"success" example:"true"`
	Matricule string             `json:"matricule" example:"240001"`
	Message   string             `json:"message" example:"Enrollment recorded"`
	StudentID int64              `json:"studentId" example:"1"`
	Documents []DocumentResponse `json:"documents"`
}

// NewEnrollmentResponse converts an EnrollmentResult
func NewEnrollmentResponse(r *models.EnrollmentResult) EnrollmentResponse {
	docs := make([]DocumentResponse, 0, len(r.Documents))
	for _, d := range r.Documents {
		docs = append(docs, DocumentResponse{
			DocumentType: d.DocumentType,
			Filename:     d.Filename,
			MimeType:     d.MimeType,
			SizeBytes:    d.SizeBytes,
		})
	}
	return EnrollmentResponse{
		Success:   true,
		Matricule: r.Matricule,
		Message:   "Enrollment recorded",
		StudentID: r.StudentID,
		Documents: docs,
	}
}

// ReenrollmentRequest moves a student to a new grade level
type ReenrollmentRequest struct {
	PreviousGradeLevel string  `json:"previousGradeLevel" binding:"omitempty,gradelevel" example:"CP"`
	NewGradeLevel      string  `json:"newGradeLevel" binding:"required,gradelevel" example:"CE1"`
	SchoolYear         string  `json:"schoolYear" binding:"omitempty,schoolyear" example:"2024-2025"`
	PaymentAmount      float64 `json:"paymentAmount" binding:"min=0" example:"20000"`
	PaymentMode        string  `json:"paymentMode" binding:"required,max=30" example:"cash"`
	PaymentReference   string  `json:"paymentReference" binding:"max=100"`
}

// ToInput builds the re-enrollment command for matricule
func (r *ReenrollmentRequest) ToInput(matricule string) models.ReenrollmentInput {
	return models.ReenrollmentInput{
		Matricule:          matricule,
		PreviousGradeLevel: r.PreviousGradeLevel,
		NewGradeLevel:      r.NewGradeLevel,
		SchoolYear:         r.SchoolYear,
		Payment: models.Payment{
			PaymentType: models.PaymentTypeReenrollment,
			Amount:      r.PaymentAmount,
			PaymentMode: r.PaymentMode,
			Reference:   r.PaymentReference,
		},
	}
}

// ReenrollmentResponse is returned by a successful re-enrollment
type ReenrollmentResponse struct {
	Success            bool   `json:"success" example:"true"`
	Matricule          string `json:"matricule" example:"240001"`
	Message            string `json:"message" example:"Re-enrollment recorded"`
	PreviousGradeLevel string `json:"previousGradeLevel" example:"CP"`
	NewGradeLevel      string `json:"newGradeLevel" example:"CE1"`
	SchoolYear         string `json:"schoolYear" example:"2024-2025"`
}
