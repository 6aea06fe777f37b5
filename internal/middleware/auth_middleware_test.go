package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/middleware"
)

type fakeVerifier struct {
	token *auth.Token
	err   error
}

func (v *fakeVerifier) VerifyIDToken(_ context.Context, _ string) (*auth.Token, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.token, nil
}

func newTestRouter(verifier middleware.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := middleware.NewAuthMiddleware(verifier, zap.NewNop())

	router := gin.New()
	router.GET("/me", mw.VerifyToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(middleware.ContextUserIDKey)})
	})
	router.GET("/admin", mw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(middleware.ContextUserIDKey)})
	})
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyToken_MissingOrMalformedHeader(t *testing.T) {
	router := newTestRouter(&fakeVerifier{token: &auth.Token{UID: "u1"}})

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/me", "token-without-scheme").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/me", "Basic abc").Code)
}

func TestVerifyToken_InvalidToken(t *testing.T) {
	router := newTestRouter(&fakeVerifier{err: errors.New("token expired")})
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/me", "Bearer bad").Code)
}

func TestVerifyToken_ValidToken(t *testing.T) {
	router := newTestRouter(&fakeVerifier{token: &auth.Token{
		UID:    "u1",
		Claims: map[string]interface{}{"email": "owner@example.com"},
	}})

	rec := doRequest(router, "/me", "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")
}

func TestRequireAdmin_RejectsValidTokenWithoutClaim(t *testing.T) {
	router := newTestRouter(&fakeVerifier{token: &auth.Token{
		UID:    "u1",
		Claims: map[string]interface{}{"email": "owner@example.com"},
	}})

	assert.Equal(t, http.StatusForbidden, doRequest(router, "/admin", "Bearer good").Code)
}

func TestRequireAdmin_RejectsNonBooleanClaim(t *testing.T) {
	router := newTestRouter(&fakeVerifier{token: &auth.Token{
		UID:    "u1",
		Claims: map[string]interface{}{"admin": "true"},
	}})

	assert.Equal(t, http.StatusForbidden, doRequest(router, "/admin", "Bearer good").Code)
}

func TestRequireAdmin_AllowsAdminClaim(t *testing.T) {
	router := newTestRouter(&fakeVerifier{token: &auth.Token{
		UID:    "admin-1",
		Claims: map[string]interface{}{"admin": true},
	}})

	rec := doRequest(router, "/admin", "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin-1")
}

func TestRequireAdmin_InvalidTokenIsUnauthorized(t *testing.T) {
	router := newTestRouter(&fakeVerifier{err: errors.New("token expired")})
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "/admin", "Bearer bad").Code)
}
