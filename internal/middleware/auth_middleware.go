package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys populated by VerifyToken for downstream handlers.
const (
	ContextUserIDKey        = "userID"
	ContextUserEmailKey     = "userEmail"
	ContextDisplayNameKey   = "userDisplayName"
	ContextEmailVerifiedKey = "userEmailVerified"
)

// ErrorResponse mirrors the one in internal/api to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier is the slice of the Firebase Auth client the middleware
// needs. *auth.Client satisfies it; tests supply a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a non-nil token verifier")
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

func (m *AuthMiddleware) verify(c *gin.Context) (*auth.Token, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
		return nil, false
	}

	token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
	if err != nil {
		m.logger.Warn("Failed to verify ID token", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
		return nil, false
	}
	return token, true
}

func setClaims(c *gin.Context, token *auth.Token) {
	c.Set(ContextUserIDKey, token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		c.Set(ContextUserEmailKey, email)
	}
	if name, ok := token.Claims["name"].(string); ok {
		c.Set(ContextDisplayNameKey, name)
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		c.Set(ContextEmailVerifiedKey, verified)
	}
}

// VerifyToken authenticates the request with a Firebase ID token from the
// Authorization header and stores the caller's identity on the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.verify(c)
		if !ok {
			return
		}
		setClaims(c, token)
		c.Next()
	}
}

// RequireAdmin authenticates the request and additionally requires the
// "admin" custom claim. Valid tokens without the claim get 403.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.verify(c)
		if !ok {
			return
		}
		if isAdmin, _ := token.Claims["admin"].(bool); !isAdmin {
			m.logger.Warn("Non-admin token on admin route", zap.String("uid", token.UID))
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
			return
		}
		setClaims(c, token)
		c.Next()
	}
}
