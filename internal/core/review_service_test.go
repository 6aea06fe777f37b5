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

func TestReviewRequestCreate(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := core.NewReviewRequestService(repo, zap.NewNop())

	request, err := svc.Create(context.Background(), "u1", models.CreateReviewRequestRequest{
		BusinessName:  "  Acme Coffee  ",
		CustomerName:  "Sam",
		CustomerEmail: "sam@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, "u1", request.OwnerID)
	assert.Equal(t, "Acme Coffee", request.BusinessName)
	assert.Equal(t, models.ReviewRequestStatusPending, request.Status)
}

func TestReviewRequestCreate_RequiresBusinessName(t *testing.T) {
	svc := core.NewReviewRequestService(newFakeRequestRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), "u1", models.CreateReviewRequestRequest{BusinessName: "   "})
	assert.Error(t, err)
}

func TestReviewRequestGetByID_EnforcesOwnership(t *testing.T) {
	repo := newFakeRequestRepo(&models.ReviewRequest{ID: "R", OwnerID: "u1", BusinessName: "Acme Coffee"})
	svc := core.NewReviewRequestService(repo, zap.NewNop())

	request, err := svc.GetByID(context.Background(), "u1", "R")
	require.NoError(t, err)
	assert.Equal(t, "R", request.ID)

	_, err = svc.GetByID(context.Background(), "u2", "R")
	assert.ErrorIs(t, err, core.ErrNotRequestOwner)

	_, err = svc.GetByID(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, core.ErrRequestNotFound)
}

func TestReviewRequestDelete_EnforcesOwnership(t *testing.T) {
	repo := newFakeRequestRepo(&models.ReviewRequest{ID: "R", OwnerID: "u1", BusinessName: "Acme Coffee"})
	svc := core.NewReviewRequestService(repo, zap.NewNop())

	err := svc.Delete(context.Background(), "u2", "R")
	assert.ErrorIs(t, err, core.ErrNotRequestOwner)

	err = svc.Delete(context.Background(), "u1", "R")
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), "u1", "R")
	assert.ErrorIs(t, err, core.ErrRequestNotFound)
}
