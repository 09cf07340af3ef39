package handler

import (
	"net/http"

	"github.com/Jkweks/workorder-dashboard/internal/config"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds the handler set.
type Handlers struct {
	WorkOrder *WorkOrderHandler
	Auth      *AuthHandler
}

// NewHandlers creates the handler set.
func NewHandlers(svc *service.Services, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		WorkOrder: NewWorkOrderHandler(svc.WorkOrder, svc.PDF, svc.Export, logger),
		Auth:      NewAuthHandler(svc.Auth, logger),
	}
}

// The wire shapes below are fixed by the dashboard client: 404s carry
// {"error":"Not found"} and anything unexpected becomes a generic 500 with
// the real error logged server-side only.

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func serverError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("Server error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
