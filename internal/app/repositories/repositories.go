package repositories

import (
	"github.com/yigit/registrar/internal/db"
)

// Repositories holds all the repository instances bound to one Querier,
// either the pool or a transaction.
type Repositories struct {
	UserRepository         *UserRepository
	StudentRepository      *StudentRepository
	GuardianRepository     *GuardianRepository
	ServiceRepository      *ServiceRepository
	PaymentRepository      *PaymentRepository
	DocumentRepository     *DocumentRepository
	ReenrollmentRepository *ReenrollmentRepository
	TariffRepository       *TariffRepository
}

// NewRepositories initializes all repositories
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(q),
		StudentRepository:      NewStudentRepository(q),
		GuardianRepository:     NewGuardianRepository(q),
		ServiceRepository:      NewServiceRepository(q),
		PaymentRepository:      NewPaymentRepository(q),
		DocumentRepository:     NewDocumentRepository(q),
		ReenrollmentRepository: NewReenrollmentRepository(q),
		TariffRepository:       NewTariffRepository(q),
	}
}
