package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"weplan/config"
	adapterauth "weplan/internal/adapters/auth"
	adapteremail "weplan/internal/adapters/email"
	deliveryhttp "weplan/internal/delivery/http"
	"weplan/internal/delivery/http/controllers"
	"weplan/internal/delivery/http/middleware"
	"weplan/internal/repository/postgres"
	"weplan/internal/services"
)

const (
	serviceTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
	bcryptCost      = 12
)

// @title WePlan API
// @version 1.0
// @description Wedding planning collaboration API: weddings, collaborators, invitations and admissions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	weddingRepo := postgres.NewWeddingRepository(db)
	collaboratorRepo := postgres.NewCollaboratorRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)

	// Adapters
	hasher := adapterauth.NewBcryptHasher(bcryptCost)
	tokenIssuer := adapterauth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := adapterauth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := adapteremail.NewMailer(adapteremail.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: adapteremail.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureTLS,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	renderer := adapteremail.NewTemplateRenderer()

	// Services
	emailService := services.NewEmailService(mailer, renderer)
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry, emailService, logger)
	weddingService := services.NewWeddingService(weddingRepo, collaboratorRepo, serviceTimeout)
	collaboratorService := services.NewCollaboratorService(weddingRepo, collaboratorRepo)
	invitationService := services.NewInvitationService(
		weddingRepo,
		collaboratorRepo,
		invitationRepo,
		userRepo,
		emailService,
		cfg.InvitationTTL,
		cfg.AppBaseURL,
		logger,
	)
	admissionService := services.NewAdmissionService(weddingRepo, collaboratorRepo, invitationRepo)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	weddingController := controllers.NewWeddingController(logger, weddingService)
	collaboratorController := controllers.NewCollaboratorController(logger, collaboratorService)
	invitationController := controllers.NewInvitationController(logger, invitationService)
	admissionController := controllers.NewAdmissionController(logger, admissionService)
	publicController := controllers.NewPublicController(logger, weddingService)

	mux := deliveryhttp.NewRouter(
		logger,
		tokenVerifier,
		authController,
		weddingController,
		collaboratorController,
		invitationController,
		admissionController,
		publicController,
	)

	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errChan <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
