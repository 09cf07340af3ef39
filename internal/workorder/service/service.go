package service

import (
	"github.com/Jkweks/workorder-dashboard/internal/config"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/repository"
	"github.com/redis/go-redis/v9"
)

// Services holds the service set.
type Services struct {
	WorkOrder *WorkOrderService
	Auth      *AuthService
	PDF       *PDFService
	Export    *ExportService
}

// NewServices creates the service set.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	return &Services{
		WorkOrder: NewWorkOrderService(repos.WorkOrder),
		Auth:      NewAuthService(rdb, cfg),
		PDF:       NewPDFService(),
		Export:    NewExportService(),
	}
}
