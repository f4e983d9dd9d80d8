package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denizt/traincenter/internal/app/controllers"
	"github.com/denizt/traincenter/internal/app/migrations"
	"github.com/denizt/traincenter/internal/app/repositories"
	"github.com/denizt/traincenter/internal/app/routes"
	"github.com/denizt/traincenter/internal/app/services"
	"github.com/denizt/traincenter/internal/config"
	"github.com/denizt/traincenter/internal/db"
	"github.com/denizt/traincenter/internal/middleware"
	"github.com/denizt/traincenter/internal/pkg/auth"
	"github.com/denizt/traincenter/internal/pkg/filestorage"
	"github.com/denizt/traincenter/internal/pkg/helpers"
	"github.com/denizt/traincenter/internal/pkg/logger"
	"github.com/denizt/traincenter/internal/seed"
)

// Dependencies holds the shared application components built during startup
type Dependencies struct {
	Config         *config.Config
	DB             *db.PostgresDB
	Repositories   *repositories.Repositories
	Services       *services.Services
	Controllers    *controllers.Controllers
	AuthMiddleware *middleware.AuthMiddleware
	JWTService     *auth.JWTService
	FileStorage    filestorage.FileStorage
}

// LoadConfigAndSetupLogger loads the configuration and configures the global
// logger from it.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "console",
	})

	logger.Info().
		Str("mode", cfg.Server.Mode).
		Str("port", cfg.Server.Port).
		Msg("Configuration loaded")

	return cfg, nil
}

// SetupDatabase connects to PostgreSQL, runs pending migrations and seeds
// default data. Seeding failures are logged but never abort startup.
func SetupDatabase(ctx context.Context, cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrator := migrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory("migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, database.Pool, logger.WithField("component", "seed")); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	return database, nil
}

// BuildDependencies wires repositories, services, controllers and middleware
// on top of the database connection.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) (*Dependencies, error) {
	repos := repositories.NewRepositories(database.Pool)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath,
		"http://localhost:"+cfg.Server.Port+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	svcs := services.NewServices(repos, jwtService, storage, database.Pool)

	return &Dependencies{
		Config:         cfg,
		DB:             database,
		Repositories:   repos,
		Services:       svcs,
		Controllers:    controllers.NewControllers(svcs),
		AuthMiddleware: middleware.NewAuthMiddleware(jwtService),
		JWTService:     jwtService,
		FileStorage:    storage,
	}, nil
}

// SetupRouter creates the gin engine with logging and recovery middleware and
// registers all application routes.
func SetupRouter(deps *Dependencies) *gin.Engine {
	if deps.Config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	routes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
