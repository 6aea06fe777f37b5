package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/middleware"
)

// Services bundles the core services the route handlers depend on.
type Services struct {
	User     core.UserService
	Review   core.ReviewRequestService
	Billing  core.BillingService
	Dispatch core.DispatchService
	Email    core.EmailService
	Places   core.PlacesSearcher
}

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router in main before this is called.
// The route paths mirror the original serverless function names, so the
// frontend keeps calling the same URLs.
func SetupRoutes(
	router *gin.Engine,
	authMW *middleware.AuthMiddleware,
	services Services,
	logger *zap.Logger,
) {
	userHandler := NewUserHandler(services.User, logger)
	reviewHandler := NewReviewRequestHandler(services.Review, logger)
	billingHandler := NewBillingHandler(services.Billing, logger)
	dispatchHandler := NewDispatchHandler(services.Dispatch, services.Email, services.Review, logger)
	placesHandler := NewPlacesHandler(services.Places, logger)
	adminHandler := NewAdminHandler(services.User, logger)

	apiGroup := router.Group("/api")
	{
		// Profile lifecycle
		usersGroup := apiGroup.Group("/users", authMW.VerifyToken())
		{
			usersGroup.POST("/initialize", userHandler.InitializeProfile)
			usersGroup.GET("/me", userHandler.GetCurrentProfile)
		}

		// Review requests
		reviewGroup := apiGroup.Group("/review-requests", authMW.VerifyToken())
		{
			reviewGroup.POST("", reviewHandler.Create)
			reviewGroup.GET("", reviewHandler.List)
			reviewGroup.GET("/:requestId", reviewHandler.Get)
			reviewGroup.DELETE("/:requestId", reviewHandler.Delete)
		}

		// Billing
		apiGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
		apiGroup.POST("/create-portal-session", authMW.VerifyToken(), billingHandler.CreatePortalSession)
		apiGroup.POST("/create-payment-intent", authMW.VerifyToken(), billingHandler.CreatePaymentIntent)

		// Dispatch + email
		apiGroup.POST("/send-review-link", authMW.VerifyToken(), dispatchHandler.SendReviewLink)
		apiGroup.POST("/send-welcome-email", authMW.VerifyToken(), dispatchHandler.SendWelcomeEmail)

		// Places proxy
		apiGroup.GET("/get-place-details", authMW.VerifyToken(), placesHandler.GetPlaceDetails)

		// Admin (custom claim required)
		apiGroup.GET("/list-users", authMW.RequireAdmin(), adminHandler.ListUsers)
		apiGroup.POST("/set-user-status", authMW.RequireAdmin(), adminHandler.SetUserStatus)

		// Stripe webhooks: public, authenticated by signature, each with its
		// own signing secret.
		apiGroup.POST("/stripe-webhook", billingHandler.HandlePaymentWebhook)
		apiGroup.POST("/stripe-subscription-webhook", billingHandler.HandleSubscriptionWebhook)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "ReviewPilot backend is healthy."})
	})

	logger.Info("API routes configured under /api and /health.")
}
