package models

// Tariff is the fee schedule of one grade level
type Tariff struct {
	ID              int64   `json:"id" db:"id"`
	GradeLevel      string  `json:"gradeLevel" db:"grade_level" example:"CP"`
	EnrollmentFee   float64 `json:"enrollmentFee" db:"enrollment_fee" example:"30000"`
	MonthlyFee      float64 `json:"monthlyFee" db:"monthly_fee" example:"130000"`
	ReenrollmentFee float64 `json:"reenrollmentFee" db:"reenrollment_fee" example:"20000"`
}

// DefaultTariffs is the fee schedule seeded on first start
var DefaultTariffs = []Tariff{
	{GradeLevel: "PPS", EnrollmentFee: 30000, MonthlyFee: 120000, ReenrollmentFee: 20000},
	{GradeLevel: "PS", EnrollmentFee: 30000, MonthlyFee: 120000, ReenrollmentFee: 20000},
	{GradeLevel: "MS", EnrollmentFee: 30000, MonthlyFee: 120000, ReenrollmentFee: 20000},
	{GradeLevel: "GS", EnrollmentFee: 30000, MonthlyFee: 120000, ReenrollmentFee: 20000},
	{GradeLevel: "CI", EnrollmentFee: 30000, MonthlyFee: 130000, ReenrollmentFee: 20000},
	{GradeLevel: "CP", EnrollmentFee: 30000, MonthlyFee: 130000, ReenrollmentFee: 20000},
	{GradeLevel: "CE1", EnrollmentFee: 30000, MonthlyFee: 130000, ReenrollmentFee: 20000},
	{GradeLevel: "CE2", EnrollmentFee: 30000, MonthlyFee: 130000, ReenrollmentFee: 20000},
	{GradeLevel: "CM1", EnrollmentFee: 30000, MonthlyFee: 130000, ReenrollmentFee: 20000},
	{GradeLevel: "CM2", EnrollmentFee: 30000, MonthlyFee: 130000, ReenrollmentFee: 20000},
	{GradeLevel: "6eme", EnrollmentFee: 30000, MonthlyFee: 140000, ReenrollmentFee: 20000},
	{GradeLevel: "5eme", EnrollmentFee: 30000, MonthlyFee: 140000, ReenrollmentFee: 20000},
	{GradeLevel: "4eme", EnrollmentFee: 30000, MonthlyFee: 140000, ReenrollmentFee: 20000},
	{GradeLevel: "3eme", EnrollmentFee: 30000, MonthlyFee: 140000, ReenrollmentFee: 20000},
	{GradeLevel: "2nd", EnrollmentFee: 30000, MonthlyFee: 150000, ReenrollmentFee: 20000},
	{GradeLevel: "Hifz", EnrollmentFee: 30000, MonthlyFee: 100000, ReenrollmentFee: 20000},
}
