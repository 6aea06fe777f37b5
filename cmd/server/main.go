package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"reviewpilot-backend-go/internal/api"
	"reviewpilot-backend-go/internal/config"
	"reviewpilot-backend-go/internal/core"
	"reviewpilot-backend-go/internal/db"
	"reviewpilot-backend-go/internal/email"
	"reviewpilot-backend-go/internal/middleware"
	"reviewpilot-backend-go/internal/places"
	"reviewpilot-backend-go/internal/stripe"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded.")

	// Firebase Admin SDK clients, constructed once and injected everywhere.
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	clients, err := db.NewClients(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer clients.Close()
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized.")

	// Repositories
	userRepo := db.NewFirestoreUserRepository(clients.Firestore)
	requestRepo := db.NewFirestoreReviewRequestRepository(clients.Firestore)
	auditRepo := db.NewFirestoreAuditRepository(clients.Firestore)

	// Upstream provider clients
	stripeClient := stripe.NewClient(appConfig.StripeSecretKey, zapLogger)
	placesClient := places.NewClient(appConfig.PlacesAPIKey)
	emailSender, err := email.NewSMTPSender(email.SMTPConfig{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUsername,
		Password: appConfig.SMTPPassword,
		From:     appConfig.EmailFrom,
	})
	if err != nil {
		zapLogger.Fatal("Failed to initialize SMTP sender", zap.Error(err))
	}

	// Core services
	auditService := core.NewAuditService(auditRepo, zapLogger)
	userService := core.NewUserService(userRepo, auditService, zapLogger)
	reviewService := core.NewReviewRequestService(requestRepo, zapLogger)
	dispatchService := core.NewDispatchService(requestRepo, placesClient, emailSender, zapLogger)
	emailService := core.NewEmailService(emailSender, zapLogger)
	billingService, err := core.NewBillingService(
		userRepo,
		requestRepo,
		stripeClient,
		dispatchService,
		auditService,
		core.BillingConfig{
			PaymentWebhookSecret:      appConfig.StripeWebhookSecret,
			SubscriptionWebhookSecret: appConfig.StripeSubscriptionWebhookSecret,
			CheckoutSuccessURL:        appConfig.CheckoutSuccessURL,
			CheckoutCancelURL:         appConfig.CheckoutCancelURL,
			PortalReturnURL:           appConfig.ClientURL,
		},
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Failed to initialize BillingService", zap.Error(err))
	}
	zapLogger.Info("Core services initialized.")

	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))

	authMW := middleware.NewAuthMiddleware(clients.Auth, zapLogger)
	api.SetupRoutes(router, authMW, api.Services{
		User:     userService,
		Review:   reviewService,
		Billing:  billingService,
		Dispatch: dispatchService,
		Email:    emailService,
		Places:   placesClient,
	}, zapLogger)

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...",
		zap.String("address", serverAddr),
		zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
