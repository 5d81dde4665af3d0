package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-request-api/internal/config"
	"github.com/noah-isme/campus-request-api/internal/database"
	"github.com/noah-isme/campus-request-api/internal/handler"
	"github.com/noah-isme/campus-request-api/internal/lifecycle"
	"github.com/noah-isme/campus-request-api/internal/middleware"
	"github.com/noah-isme/campus-request-api/internal/models"
	"github.com/noah-isme/campus-request-api/internal/repository"
	"github.com/noah-isme/campus-request-api/internal/router"
	"github.com/noah-isme/campus-request-api/internal/service"
	"github.com/noah-isme/campus-request-api/pkg/ai"
	cloud "github.com/noah-isme/campus-request-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Department{},
		&models.Course{},
		&models.User{},
		&models.Request{},
		&models.RequestComment{},
		&models.Notification{},
		&models.ChatMessage{},
		&models.Feedback{},
		&models.UploadRecord{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, cross-node fan-out disabled")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	academicsRepo := repository.NewAcademicsRepository(db)
	chatRepo := repository.NewChatRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	mailSender := service.NewLogMailSender(logger)
	authService := service.NewAuthService(userRepo, mailSender, validate, logger, cfg.JWTSecret, cfg.JWTTokenTTL, cfg.ResetTokenTTL)
	userService := service.NewUserService(userRepo, auditService, validate, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.RealtimeChannel, natsConn, logger)
	requestService := service.NewRequestService(requestRepo, commentRepo, userRepo, notificationService, auditService, lifecycle.RulesForMode(cfg.LifecycleMode), validate, logger)
	threadService := service.NewThreadService(requestRepo, commentRepo, userRepo, notificationService, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, validate, logger)
	academicsService := service.NewAcademicsService(academicsRepo, redisClient, cfg.CatalogCacheTTL, validate, logger)
	chatService := service.NewChatService(chatRepo, requestRepo, redisClient, cfg.RealtimeChannel, natsConn, validate, logger)

	var uploadHandler *handler.UploadHandler
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploadService := service.NewUploadService(uploader, uploadRepo, cfg.UploadMaxSizeMB, logger)
		uploadHandler = handler.NewUploadHandler(uploadService, logger)
	} else {
		logger.Warn().Msg("cloudinary not configured, attachment uploads disabled")
	}

	assistantService := service.NewAssistantService(assistantModel(cfg, logger), requestRepo, validate, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificationService.Start(ctx)
	chatService.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		RequestHandler:      handler.NewRequestHandler(requestService, threadService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, cfg.NotificationPollEvery, logger),
		FeedbackHandler:     handler.NewFeedbackHandler(feedbackService, logger),
		AcademicsHandler:    handler.NewAcademicsHandler(academicsService, logger),
		UploadHandler:       uploadHandler,
		AssistantHandler:    handler.NewAssistantHandler(assistantService, logger),
		ChatHandler:         handler.NewChatHandler(chatService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// assistantModel selects the configured AI backend, or none when no key is set.
func assistantModel(cfg config.Config, logger zerolog.Logger) ai.Assistant {
	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn().Msg("openai api key missing, assistant runs on canned intents only")
			return nil
		}
		model, err := ai.NewOpenAIAssistant(ai.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Logger: logger})
		if err != nil {
			logger.Warn().Err(err).Msg("openai assistant unavailable")
			return nil
		}
		return model
	case "anthropic":
		model, err := ai.NewAnthropicAssistant(ai.AnthropicConfig{APIKey: cfg.AnthropicAPIKey})
		if err != nil {
			logger.Warn().Err(err).Msg("anthropic assistant unavailable")
			return nil
		}
		return model
	default:
		return nil
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
