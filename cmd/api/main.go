package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"scamwatch/internal/adapter/api"
	"scamwatch/internal/adapter/api/handler"
	apimiddleware "scamwatch/internal/adapter/api/middleware"
	"scamwatch/internal/adapter/api/router"
	"scamwatch/internal/adapter/repository"
	"scamwatch/internal/domain/entity"
	"scamwatch/internal/infrastructure/classifier"
	"scamwatch/internal/infrastructure/firebase"
	"scamwatch/internal/infrastructure/geocode"
	"scamwatch/internal/infrastructure/notification"
	"scamwatch/internal/infrastructure/ratelimit"
	"scamwatch/internal/infrastructure/websocket"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Prefer service account JSON from the environment (production),
	// fall back to a key file path for local development.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Messaging: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	reportRepo := repository.NewFirestoreReportRepository(firestoreClient)
	alertRepo := repository.NewFirestoreAlertRepository(firestoreClient)

	firebaseAuthClient := firebase.NewAuthClient(authClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)
	feed := websocket.NewFeed(wsManager)

	senders := map[string]usecase.ChannelSender{
		entity.ChannelPush:  notification.NewFCMPushSender(messagingClient),
		entity.ChannelEmail: notification.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword),
		entity.ChannelSMS:   notification.NewHTTPSMSSender(cfg.SMSGatewayURL, cfg.SMSGatewayKey),
	}

	reputationUseCase := usecase.NewReputationUseCase(userRepo)
	verificationUseCase := usecase.NewVerificationUseCase(reportRepo, userRepo, reputationUseCase, feed)

	proximityMatcher := usecase.NewProximityMatcher(userRepo)
	patternMatcher := usecase.NewPatternMatcher(userRepo)
	alertFactory := usecase.NewAlertFactory(alertRepo)
	channelRouter := usecase.NewChannelRouter(alertRepo, senders)
	dispatcher := usecase.NewAlertDispatcher(userRepo, proximityMatcher, patternMatcher, alertFactory, channelRouter, feed)

	reportUseCase := usecase.NewReportUseCase(
		reportRepo,
		classifier.New(),
		geocode.NewHTTPGeocoder(cfg.GeocoderURL),
		reputationUseCase,
		dispatcher,
		feed,
	)
	alertUseCase := usecase.NewAlertUseCase(alertRepo)
	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	handler.Setup(reportUseCase, verificationUseCase, alertUseCase, userUseCase, limiter)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, authClient)

	router.Setup(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	// Periodically resweep alerts that still have un-sent channels.
	go func() {
		interval := time.Duration(cfg.RedeliverySweepMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepCtx, cancel := context.WithTimeout(ctx, interval)
				if _, err := dispatcher.RedeliverPending(sweepCtx, 100); err != nil {
					log.Printf("Redelivery sweep failed: %v", err)
				}
				cancel()
			}
		}
	}()

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
