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
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/clasit/syllabus-manager/internal/app/controllers"
	appMigrations "github.com/clasit/syllabus-manager/internal/app/migrations"
	appRepos "github.com/clasit/syllabus-manager/internal/app/repositories"
	appRoutes "github.com/clasit/syllabus-manager/internal/app/routes"
	appServices "github.com/clasit/syllabus-manager/internal/app/services"
	"github.com/clasit/syllabus-manager/internal/catalog"
	"github.com/clasit/syllabus-manager/internal/config"
	"github.com/clasit/syllabus-manager/internal/db"
	"github.com/clasit/syllabus-manager/internal/pkg/filestorage"
	"github.com/clasit/syllabus-manager/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Catalog           *catalog.Cache
	SyncService       *appServices.SyncService
	ImportService     *appServices.ImportService
	SectionService    *appServices.SectionService
	CatalogController *appControllers.CatalogController
	SyncController    *appControllers.SyncController
	SectionController *appControllers.SectionController
	ImportController  *appControllers.ImportController
	Repos             *appRepos.Repositories
	Logger            zerolog.Logger
	FileStorage       *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
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

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return database, nil
}

// SetupRedis connects to the cache backend.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*goredis.Client, error) {
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to Redis...")
	rdb, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Msg("Redis connection successfully established.")
	return rdb, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, rdb *goredis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	// Initialize File Storage
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	// Catalog feed client wrapped by the Redis-backed cache
	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.GetCatalogRequestTimeout())
	deps.Catalog = catalog.NewCache(client, catalog.NewRedisStore(rdb), cfg.GetCatalogCacheTTL())

	// Initialize services
	deps.SyncService = appServices.NewSyncService(deps.Repos.SectionRepository, deps.Catalog)
	deps.ImportService = appServices.NewImportService(deps.Repos.TaxonomyRepository)
	deps.SectionService = appServices.NewSectionService(deps.Repos.SectionRepository, deps.FileStorage)

	deps.CatalogController = appControllers.NewCatalogController(deps.Catalog)
	deps.SyncController = appControllers.NewSyncController(deps.SyncService)
	deps.SectionController = appControllers.NewSectionController(deps.SectionService)
	deps.ImportController = appControllers.NewImportController(deps.ImportService, deps.FileStorage)

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

	router := gin.Default()

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.CatalogController,
		deps.SyncController,
		deps.SectionController,
		deps.ImportController,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
