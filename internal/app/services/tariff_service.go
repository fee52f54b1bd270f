package services

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
)

// TariffService exposes the fee schedule
type TariffService interface {
	List(ctx context.Context) ([]models.Tariff, error)
}

type tariffServiceImpl struct {
	tariffRepo *repositories.TariffRepository
}

// NewTariffService creates a new tariff service instance
func NewTariffService(tariffRepo *repositories.TariffRepository) TariffService {
	return &tariffServiceImpl{tariffRepo: tariffRepo}
}

// List returns every tariff ordered by id
func (s *tariffServiceImpl) List(ctx context.Context) ([]models.Tariff, error) {
	tariffs, err := s.tariffRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tariffs: %w", err)
	}
	return tariffs, nil
}
