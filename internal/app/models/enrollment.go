package models

// ServiceSelection is one requested service with its raw JSON object details
type ServiceSelection struct {
	Type    ServiceType
	Details string
}

// EnrollmentInput carries everything the enrollment transaction writes.
// Student.Matricule is assigned inside the transaction.
type EnrollmentInput struct {
	Student          Student
	Guardian1        Guardian
	Guardian2        *Guardian
	EmergencyContact EmergencyContact
	Services         []ServiceSelection
	Payment          Payment
}

// EnrollmentResult is returned after a committed enrollment
type EnrollmentResult struct {
	StudentID int64
	Matricule string
	Documents []Document
}

// ReenrollmentInput moves an existing student to a new grade level.
// An empty PreviousGradeLevel means the stored level is recorded.
type ReenrollmentInput struct {
	Matricule          string
	PreviousGradeLevel string
	NewGradeLevel      string
	SchoolYear         string
	Payment            Payment
}

// ReenrollmentResult is returned after a committed re-enrollment
type ReenrollmentResult struct {
	StudentID          int64
	Matricule          string
	PreviousGradeLevel string
	NewGradeLevel      string
	SchoolYear         string
}

// SearchFilter holds the optional, AND-composed search criteria
type SearchFilter struct {
	Matricule  string
	Name       string
	GradeLevel string
	// Limit of zero returns every match
	Limit  int
	Offset uint64
}

// IsGradeLevel reports whether level has a tariff
func IsGradeLevel(level string) bool {
	for _, t := range DefaultTariffs {
		if t.GradeLevel == level {
			return true
		}
	}
	return false
}
