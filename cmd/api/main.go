package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"warriorhub/config"
	"warriorhub/internal/adapters/auth"
	"warriorhub/internal/adapters/email"
	"warriorhub/internal/adapters/imagecheck"
	httpdelivery "warriorhub/internal/delivery/http"
	"warriorhub/internal/delivery/http/controllers"
	"warriorhub/internal/delivery/http/middleware"
	"warriorhub/internal/repository/postgres"
	"warriorhub/internal/seed"
	"warriorhub/internal/services"
)

const contextTimeout = 5 * time.Second

// @title           WarriorHub API
// @version         1.0
// @description     Campus event discovery and management API.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg)

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

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	interestRepo := postgres.NewInterestRepository(db)

	hasher := auth.NewBcryptHasher(0)
	issuer, verifier := auth.NewJWTCodec(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	imageValidator := imagecheck.NewHeadChecker(3 * time.Second)

	userService := services.NewUserService(userRepo, hasher, issuer, emailService,
		cfg.JWTExpiry, cfg.SignupEmailDomain, contextTimeout)
	eventService := services.NewEventService(eventRepo, categoryRepo, interestRepo,
		userRepo, emailService, imageValidator, contextTimeout)

	if cfg.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seed.Run(ctx, db, hasher, logger); err != nil {
			logger.Error("seeding failed", "error", err)
		}
		cancel()
	}

	eventController := controllers.NewEventController(logger, eventService)
	userController := controllers.NewUserController(logger, userService)
	mux := httpdelivery.NewRouter(logger, verifier, eventController, userController)

	var origins []string
	if cfg.CORSAllowedOrigins != "" {
		for _, o := range strings.Split(cfg.CORSAllowedOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	handler := middleware.CORS(origins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
