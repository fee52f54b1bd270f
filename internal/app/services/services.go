// Package services holds the business rules of the registration office.
// Services that write more than one table own their transaction and build
// transaction-bound repositories with repositories.NewRepositories(tx).
package services

// Services groups the service instances handed to the controllers
type Services struct {
	Auth       *AuthService
	Enrollment EnrollmentService
	Student    StudentService
	Tariff     TariffService
}
