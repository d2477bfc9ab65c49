package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/schoolmed/healthdesk/internal/app/controllers"
	appMigrations "github.com/schoolmed/healthdesk/internal/app/migrations"
	appRepos "github.com/schoolmed/healthdesk/internal/app/repositories"
	appRoutes "github.com/schoolmed/healthdesk/internal/app/routes"
	appServices "github.com/schoolmed/healthdesk/internal/app/services"
	"github.com/schoolmed/healthdesk/internal/config"
	"github.com/schoolmed/healthdesk/internal/db"
	appMiddleware "github.com/schoolmed/healthdesk/internal/middleware"
	pkgAuth "github.com/schoolmed/healthdesk/internal/pkg/auth"
	"github.com/schoolmed/healthdesk/internal/pkg/cache"
	"github.com/schoolmed/healthdesk/internal/pkg/clock"
	"github.com/schoolmed/healthdesk/internal/pkg/logger"
	"github.com/schoolmed/healthdesk/internal/pkg/realtime"
	"github.com/schoolmed/healthdesk/internal/pkg/validation"
	"github.com/schoolmed/healthdesk/internal/upstream"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	StudentService       appServices.StudentService
	MedicationService    appServices.MedicationService
	AuditService         *appServices.AuditService
	StudentController    *appControllers.StudentController
	MedicationController *appControllers.MedicationController
	AuditController      *appControllers.AuditController
	AuditFeedHandler     *realtime.Handler
	AuditFeedHub         *realtime.Hub
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Upstream             *upstream.Client
	Cache                *cache.TagCache
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	// A local .env is developer convenience; absence is not an error
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

// SetupDatabase establishes the database connection and runs migrations.
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
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes repositories, the upstream client,
// services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExp(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Upstream = upstream.NewClient(upstream.Config{
		BaseURL:  cfg.Upstream.BaseURL,
		Email:    cfg.Upstream.Email,
		Password: cfg.Upstream.Password,
	}, &http.Client{Timeout: cfg.UpstreamTimeout()}, lgr)

	deps.Cache = cache.NewTagCache(cfg.CacheTTL())

	deps.AuditFeedHub = realtime.NewHub(lgr)
	deps.AuditFeedHandler = realtime.NewHandler(deps.AuditFeedHub, lgr)

	validator := validation.NewValidator(clock.System())

	deps.AuditService = appServices.NewAuditService(deps.Repos.AuditRepository, deps.AuditFeedHub, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Upstream, deps.AuditService, deps.Cache, validator, lgr)
	deps.MedicationService = appServices.NewMedicationService(deps.Upstream, deps.AuditService, deps.Cache, validator, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.MedicationController = appControllers.NewMedicationController(deps.MedicationService)
	deps.AuditController = appControllers.NewAuditController(deps.AuditService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.MedicationController,
		deps.AuditController,
		deps.AuditFeedHandler,
		deps.AuthMiddleware,
	)

	// Liveness endpoints
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return router
}
