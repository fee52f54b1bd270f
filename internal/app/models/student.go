package models

import (
	"time"
)

// Student is the enrolled pupil; Matricule never changes once assigned
type Student struct {
	ID                int64      `json:"id" db:"id"`
	Matricule         string     `json:"matricule" db:"matricule" example:"240001"`
	FirstName         string     `json:"firstName" db:"first_name"`
	LastName          string     `json:"lastName" db:"last_name"`
	BirthDate         *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Sex               Sex        `json:"sex" db:"sex" example:"F"`
	Nationality       string     `json:"nationality,omitempty" db:"nationality"`
	Birthplace        string     `json:"birthplace,omitempty" db:"birthplace"`
	GradeLevel        string     `json:"gradeLevel" db:"grade_level" example:"CP"`
	PreviousSchool    string     `json:"previousSchool,omitempty" db:"previous_school"`
	BloodGroup        string     `json:"bloodGroup,omitempty" db:"blood_group"`
	MedicalConditions string     `json:"medicalConditions,omitempty" db:"medical_conditions"`
	Medications       string     `json:"medications,omitempty" db:"medications"`
	PhysicianName     string     `json:"physicianName,omitempty" db:"physician_name"`
	CreatedBy         int64      `json:"createdBy" db:"created_by"`
	CreatedAt         time.Time  `json:"createdAt" db:"created_at"`
}

// Guardian is a parent or legal guardian, linked to students through StudentGuardian
type Guardian struct {
	ID         int64  `json:"id" db:"id"`
	FullName   string `json:"fullName" db:"full_name"`
	Phone      string `json:"phone,omitempty" db:"phone"`
	Email      string `json:"email,omitempty" db:"email"`
	Profession string `json:"profession,omitempty" db:"profession"`
	Address    string `json:"address,omitempty" db:"address"`
	Relation   string `json:"relation,omitempty" db:"relation"`
}

// StudentGuardian links a student to a guardian; at most one primary link per student
type StudentGuardian struct {
	StudentID  int64 `db:"student_id"`
	GuardianID int64 `db:"guardian_id"`
	IsPrimary  bool  `db:"is_primary"`
}

// EmergencyContact is the person to call when guardians are unreachable
type EmergencyContact struct {
	ID        int64  `json:"id" db:"id"`
	StudentID int64  `json:"studentId" db:"student_id"`
	Name      string `json:"name" db:"name"`
	Phone     string `json:"phone" db:"phone"`
	Relation  string `json:"relation,omitempty" db:"relation"`
}

// ServiceSubscription is an optional service a student is signed up for
type ServiceSubscription struct {
	ID          int64         `json:"id" db:"id"`
	StudentID   int64         `json:"studentId" db:"student_id"`
	ServiceType ServiceType   `json:"serviceType" db:"service_type"`
	Details     string        `json:"details" db:"details"`
	StartDate   *time.Time    `json:"startDate,omitempty" db:"start_date"`
	EndDate     *time.Time    `json:"endDate,omitempty" db:"end_date"`
	Status      ServiceStatus `json:"status" db:"status"`
}

// Payment records money received for an enrollment or re-enrollment
type Payment struct {
	ID          int64         `json:"id" db:"id"`
	StudentID   int64         `json:"studentId" db:"student_id"`
	PaymentType PaymentType   `json:"paymentType" db:"payment_type"`
	Amount      float64       `json:"amount" db:"amount"`
	PaymentMode string        `json:"paymentMode" db:"payment_mode"`
	Reference   string        `json:"reference,omitempty" db:"reference"`
	Status      PaymentStatus `json:"status" db:"status"`
	PaidAt      time.Time     `json:"paidAt" db:"paid_at"`
	CreatedBy   int64         `json:"createdBy" db:"created_by"`
}

// Document is the metadata of an uploaded file attached to a student
type Document struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	DocumentType string    `json:"documentType" db:"document_type"`
	Filename     string    `json:"filename" db:"filename"`
	Path         string    `json:"path" db:"path"`
	MimeType     string    `json:"mimeType" db:"mime_type"`
	SizeBytes    int64     `json:"sizeBytes" db:"size_bytes"`
	UploadedAt   time.Time `json:"uploadedAt" db:"uploaded_at"`
}

// Reenrollment records a grade level change for a new school year
type Reenrollment struct {
	ID                 int64     `json:"id" db:"id"`
	StudentID          int64     `json:"studentId" db:"student_id"`
	PreviousGradeLevel string    `json:"previousGradeLevel" db:"previous_grade_level"`
	NewGradeLevel      string    `json:"newGradeLevel" db:"new_grade_level"`
	SchoolYear         string    `json:"schoolYear" db:"school_year"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	CreatedBy          int64     `json:"createdBy" db:"created_by"`
}

// StudentSummary is a student row annotated with its active services and primary guardian
type StudentSummary struct {
	Student
	Services      []ServiceType `json:"services"`
	GuardianName  string        `json:"guardianName,omitempty"`
	GuardianPhone string        `json:"guardianPhone,omitempty"`
}
