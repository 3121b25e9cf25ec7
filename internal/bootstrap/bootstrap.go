package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/proske/proske-backend/internal/app/controllers"
	"github.com/proske/proske-backend/internal/app/repositories"
	"github.com/proske/proske-backend/internal/app/routes"
	"github.com/proske/proske-backend/internal/app/services"
	"github.com/proske/proske-backend/internal/config"
	"github.com/proske/proske-backend/internal/db"
	"github.com/proske/proske-backend/internal/jobs"
	"github.com/proske/proske-backend/internal/middleware"
	"github.com/proske/proske-backend/internal/pkg/auth"
	"github.com/proske/proske-backend/internal/pkg/email"
	"github.com/proske/proske-backend/internal/pkg/filestorage"
	"github.com/proske/proske-backend/internal/pkg/helpers"
	"github.com/proske/proske-backend/internal/pkg/logger"
	"github.com/proske/proske-backend/internal/pkg/websocket"
	"github.com/proske/proske-backend/internal/seed"
)

// Dependencies holds the wired application graph
type Dependencies struct {
	Repos       *repositories.Repositories
	Services    *services.Services
	Controllers *controllers.Controllers
	JWTService  *auth.JWTService
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub
	WSHandler   *websocket.Handler
	Scheduler   *jobs.Scheduler
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the
// global logger. A .env file in the working directory is applied first
// so local overrides work without exporting variables.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	_ = godotenv.Load()

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to Postgres, runs pending migrations and seeds
// default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := db.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations applied")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failures are logged but never block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies wires repositories, services, controllers and the
// websocket plumbing over the database pool.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = repositories.NewRepositories(dbPool)

	baseURL := cfg.Server.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	emails := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()

	deps.Services = services.NewServices(deps.Repos, deps.JWTService, emails, deps.FileStorage, deps.Hub, cfg, lgr)
	deps.Controllers = controllers.NewControllers(deps.Services)

	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.Services.Group, lgr)

	// Socket-originated messages are persisted through the chat service
	messageHandler := websocket.NewMessageHandler(deps.Services.Chat, deps.Hub, lgr)
	messageHandler.Start()

	deps.Scheduler = jobs.NewScheduler(
		deps.Services.Payment,
		deps.Services.Subscription,
		deps.Repos.Token,
		deps.Repos.Invite,
		lgr,
	)
	if err := deps.Scheduler.Start(cfg.Payments.OverdueSweepSchedule); err != nil {
		lgr.Error().Err(err).Msg("Failed to start background jobs")
		return nil, fmt.Errorf("failed to start background jobs: %w", err)
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(lgr))
	router.Use(middleware.CORS())

	routes.SetupRoutes(router, deps.Controllers, deps.WSHandler, deps.JWTService)

	return router
}
