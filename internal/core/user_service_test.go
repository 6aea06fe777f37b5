package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/models"
)

type recordingAudit struct {
	entries []models.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, logEntry models.AuditLog) {
	a.entries = append(a.entries, logEntry)
}

func TestGetOrCreate_FirstLoadCreatesFreeProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := core.NewUserService(userRepo, &recordingAudit{}, zap.NewNop())

	user, created, err := svc.GetOrCreate(context.Background(), "u1", "owner@example.com", "Jo Owner", true)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, models.SubscriptionStatusFree, user.SubscriptionStatus)
	assert.True(t, user.EmailVerified)
}

func TestGetOrCreate_SecondLoadReturnsExisting(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{
		ID:                 "u1",
		Email:              "owner@example.com",
		SubscriptionStatus: models.SubscriptionStatusActive,
	})
	svc := core.NewUserService(userRepo, &recordingAudit{}, zap.NewNop())

	user, created, err := svc.GetOrCreate(context.Background(), "u1", "other@example.com", "", false)
	require.NoError(t, err)
	assert.False(t, created)
	// The stored profile wins over the token claims.
	assert.Equal(t, "owner@example.com", user.Email)
	assert.Equal(t, models.SubscriptionStatusActive, user.SubscriptionStatus)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := core.NewUserService(newFakeUserRepo(), &recordingAudit{}, zap.NewNop())

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}

func TestSetSubscriptionStatus_WritesAndAudits(t *testing.T) {
	userRepo := newFakeUserRepo(&models.User{ID: "u1", SubscriptionStatus: models.SubscriptionStatusFree})
	audit := &recordingAudit{}
	svc := core.NewUserService(userRepo, audit, zap.NewNop())

	err := svc.SetSubscriptionStatus(context.Background(), "admin-1", "u1", models.SubscriptionStatusActive)
	require.NoError(t, err)

	user, err := userRepo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, user.SubscriptionStatus)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "admin-1", audit.entries[0].Actor)
	assert.Equal(t, "ADMIN_SET_STATUS", audit.entries[0].Action)
	assert.Equal(t, "u1", audit.entries[0].TargetID)
}

func TestSetSubscriptionStatus_UnknownUser(t *testing.T) {
	audit := &recordingAudit{}
	svc := core.NewUserService(newFakeUserRepo(), audit, zap.NewNop())

	err := svc.SetSubscriptionStatus(context.Background(), "admin-1", "missing", models.SubscriptionStatusActive)
	assert.ErrorIs(t, err, core.ErrUserNotFound)
	assert.Empty(t, audit.entries)
}
