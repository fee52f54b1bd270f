package dto

import "github.com/yigit/registrar/internal/app/models"

// TariffListResponse lists fee schedules
type TariffListResponse struct {
	Tariffs []models.Tariff `json:"tariffs"`
}
