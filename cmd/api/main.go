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
	"github.com/rs/zerolog"

	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/config"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/database"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/handler"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/middleware"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/models"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/repository"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/router"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/internal/service"
	"github.com/JSON-Bjorn/omniwhey-homework-fixer/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(database.PostgresOptions{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DatabaseMaxOpen,
		MaxIdleConns:    cfg.DatabaseMaxIdle,
		ConnMaxLifetime: time.Hour,
		Logger:          logger,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Teacher{}, &models.Student{}, &models.Assignment{}, &models.Submission{}, &models.Feature{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(database.RedisOptions{
		URL:      cfg.RedisURL,
		PoolSize: cfg.RedisPoolSize,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	featureRepo := repository.NewFeatureRepository(db)

	openAI := buildProvider("openai", cfg.OpenAIAPIKey, map[string]string{"model": cfg.OpenAIModel}, logger)
	anthropic := buildProvider("anthropic", cfg.AnthropicAPIKey, map[string]string{"model": cfg.AnthropicModel}, logger)
	if openAI == nil && anthropic == nil {
		logger.Warn().Msg("no AI providers configured, grading will be unavailable")
	}

	gradingService := service.NewGradingService(openAI, anthropic, logger)
	rewardService := service.NewRewardService(submissionRepo, studentRepo, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, gradingService, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, gradingService, rewardService, service.NewGoroutineTaskRunner(logger), validate, logger)
	overviewService := service.NewStudentOverviewService(assignmentRepo, submissionRepo, studentRepo, redisClient, cfg.OverviewCacheTTL, logger)
	featureService := service.NewFeatureService(featureRepo, validate, logger)
	rosterService := service.NewRosterService(teacherRepo, studentRepo, validate, logger)

	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	studentHandler := handler.NewStudentHandler(assignmentService, submissionService, overviewService, logger)
	featureHandler := handler.NewFeatureHandler(featureService, logger)
	rosterHandler := handler.NewRosterHandler(rosterService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app)
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		StudentHandler:    studentHandler,
		FeatureHandler:    featureHandler,
		RosterHandler:     rosterHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildProvider returns nil on failure so the grading service can fall back
// to whichever provider is available.
func buildProvider(name, apiKey string, options map[string]string, logger zerolog.Logger) ai.Provider {
	provider, err := ai.NewProvider(name, apiKey, options, logger)
	if err != nil {
		logger.Warn().Err(err).Str("provider", name).Msg("AI provider unavailable")
		return nil
	}

	return provider
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
