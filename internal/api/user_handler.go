package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/middleware"
)

// UserHandler handles user-profile related API endpoints.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// callerID extracts the authenticated user ID the auth middleware stored on
// the context. A missing ID means the middleware did not run.
func callerID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return "", false
	}
	userID, ok := raw.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid user ID in context"})
		return "", false
	}
	return userID, true
}

// InitializeProfile handles POST /api/users/initialize. Called after a
// client-side Firebase login to ensure the backend profile document exists.
func (h *UserHandler) InitializeProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	email := c.GetString(middleware.ContextUserEmailKey)
	displayName := c.GetString(middleware.ContextDisplayNameKey)
	emailVerified := c.GetBool(middleware.ContextEmailVerifiedKey)

	user, created, err := h.userService.GetOrCreate(c.Request.Context(), userID, email, displayName, emailVerified)
	if err != nil {
		h.logger.Error("Failed to initialize user profile",
			zap.String("userID", userID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to initialize user profile"})
		return
	}

	if created {
		c.JSON(http.StatusCreated, user)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetCurrentProfile handles GET /api/users/me.
func (h *UserHandler) GetCurrentProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
			return
		}
		h.logger.Error("Failed to get user profile",
			zap.String("userID", userID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
