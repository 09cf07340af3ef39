package handler

import (
	"errors"
	"net/http"

	"github.com/Jkweks/workorder-dashboard/internal/workorder/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves token issuing for the dashboard. The work order
// endpoints themselves are open; tokens exist so the client knows which
// role's view to render.
type AuthHandler struct {
	svc    *service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(svc *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login issues a token pair for a staff name and deployment role.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name and role are required")
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Name, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrUnknownRole) {
			badRequest(c, "Unknown role")
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Refresh token is required")
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout revokes a refresh token.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Refresh token is required")
		return
	}

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
			return
		}
		serverError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me echoes the identity from the access token.
// GET /api/auth/me (JWT)
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name": c.GetString("user_name"),
		"role": c.GetString("role"),
	})
}
