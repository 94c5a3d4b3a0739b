package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventhub/config"
	_ "eventhub/docs"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	"eventhub/internal/adapters/storage"
	delivery "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
)

// @title EventHub API
// @version 1.0
// @description Event management API with signup, activation, role-gated event and category CRUD, RSVPs, and per-role dashboards.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("pinging database: %v", err)
	}

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)

	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	tokenIssuer, tokenVerifier := auth.NewJWTTokens(cfg.JWTSecret)
	activation := auth.NewActivationTokens(cfg.ActivationSecret, cfg.ActivationMaxAge)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.MailerProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKey,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESSkipVerify,
		},
	})
	if err != nil {
		log.Fatalf("creating mailer: %v", err)
	}

	mediaStore, err := storage.NewMediaStore(storage.MediaConfig{
		Provider: cfg.MediaProvider,
		LocalDir: cfg.MediaLocalDir,
		Minio: storage.MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKey,
			SecretAccessKey: cfg.MinioSecretKey,
			Bucket:          cfg.MinioBucket,
			UseSSL:          cfg.MinioUseSSL,
		},
	})
	if err != nil {
		log.Fatalf("creating media store: %v", err)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry, activation, emailService, cfg.BaseURL)
	userService := services.NewUserService(userRepo, hasher, mediaStore)
	categoryService := services.NewCategoryService(categoryRepo, userRepo)
	eventService := services.NewEventService(eventRepo, categoryRepo, userRepo, mediaStore)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, userRepo, emailService, logger)
	dashboardService := services.NewDashboardService(eventRepo, rsvpRepo, userRepo)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:      controllers.NewAuthController(logger, authService),
		User:      controllers.NewUserController(logger, userService),
		Category:  controllers.NewCategoryController(logger, categoryService),
		Event:     controllers.NewEventController(logger, eventService),
		RSVP:      controllers.NewRSVPController(logger, rsvpService),
		Dashboard: controllers.NewDashboardController(logger, dashboardService),
	}, tokenVerifier, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "err", err)
	}
}
