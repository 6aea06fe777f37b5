package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/models"
)

// AdminHandler handles admin-only endpoints. Routes using it must be guarded
// by the RequireAdmin middleware.
type AdminHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us core.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{userService: us, logger: logger}
}

// ListUsers handles GET /api/list-users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit := 100
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	users, err := h.userService.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// SetUserStatus handles POST /api/set-user-status.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		return
	}

	var req models.SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.userService.SetSubscriptionStatus(c.Request.Context(), adminID, req.UserID, req.Status); err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		h.logger.Error("Failed to set user status",
			zap.String("userID", req.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to set user status"})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User status updated"})
}
