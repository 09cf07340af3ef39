package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/entity"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/repository"
	"github.com/Jkweks/workorder-dashboard/internal/workorder/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkOrderHandler serves the work order surface of the dashboard API.
type WorkOrderHandler struct {
	svc    *service.WorkOrderService
	pdf    *service.PDFService
	export *service.ExportService
	logger *zap.Logger
}

// NewWorkOrderHandler creates the work order handler.
func NewWorkOrderHandler(svc *service.WorkOrderService, pdf *service.PDFService, export *service.ExportService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc, pdf: pdf, export: export, logger: logger}
}

// List responds with a bare array of order rows, newest first.
// GET /api/work-orders?status=&q=
func (h *WorkOrderHandler) List(c *gin.Context) {
	status := c.Query("status")
	q := c.Query("q")

	orders, err := h.svc.List(c.Request.Context(), status, q)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Create inserts a new order and responds with the created row. Items are
// not embedded; the client fetches them via the detail endpoint.
// POST /api/work-orders
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var input service.WorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	order, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get responds with {order, items}.
// GET /api/work-orders/:id
func (h *WorkOrderHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update overwrites the order and replaces its item set wholesale.
// PUT /api/work-orders/:id
func (h *WorkOrderHandler) Update(c *gin.Context) {
	var input service.WorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	order, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete removes the order; idempotent, always 204.
// DELETE /api/work-orders/:id
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PDF streams the rendered summary inline.
// GET /api/work-orders/:id/pdf
func (h *WorkOrderHandler) PDF(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(c)
			return
		}
		serverError(c, h.logger, err)
		return
	}

	data, err := h.pdf.Render(&detail.Order, detail.Items)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, detail.Order.WorkOrderNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Export downloads the filtered list as an XLSX workbook.
// GET /api/work-orders/export?status=&q=
func (h *WorkOrderHandler) Export(c *gin.Context) {
	orders, err := h.svc.List(c.Request.Context(), c.Query("status"), c.Query("q"))
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	data, err := h.export.Excel(orders)
	if err != nil {
		serverError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("work_orders_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Roles returns the fixed role permission table. Lookup only; the server
// does not gate writes on it.
// GET /api/roles
func (h *WorkOrderHandler) Roles(c *gin.Context) {
	c.JSON(http.StatusOK, entity.RolePermissions())
}
