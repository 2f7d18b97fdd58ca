package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/unirecords/internal/app/auth"
	appControllers "github.com/yigit/unirecords/internal/app/controllers"
	appMetrics "github.com/yigit/unirecords/internal/app/metrics"
	appMigrations "github.com/yigit/unirecords/internal/app/migrations"
	appRepos "github.com/yigit/unirecords/internal/app/repositories"
	memoryStore "github.com/yigit/unirecords/internal/app/repositories/memory"
	postgresStore "github.com/yigit/unirecords/internal/app/repositories/postgres"
	appRoutes "github.com/yigit/unirecords/internal/app/routes"
	appServices "github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/config"
	"github.com/yigit/unirecords/internal/db"
	appMiddleware "github.com/yigit/unirecords/internal/middleware"
	pkgAuth "github.com/yigit/unirecords/internal/pkg/auth"
	"github.com/yigit/unirecords/internal/pkg/helpers"
	"github.com/yigit/unirecords/internal/pkg/logger"
	"github.com/yigit/unirecords/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store                  appRepos.Store
	Metrics                *appMetrics.Metrics
	JWTService             *pkgAuth.JWTService
	AuthzService           *appAuth.AuthorizationService
	CatalogService         appServices.CatalogService
	RosterService          appServices.RosterService
	EnrollmentService      appServices.EnrollmentService
	ResultsService         appServices.ResultsService
	ProjectionService      appServices.ProjectionService
	HealthController       *appControllers.HealthController
	CourseController       *appControllers.CourseController
	StudentController      *appControllers.StudentController
	RegistrationController *appControllers.RegistrationController
	ResultController       *appControllers.ResultController
	DashboardController    *appControllers.DashboardController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := logger.Default()
	lgr.Info().
		Str("logLevel", logger.LevelFor(cfg.Logging.Level).String()).
		Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured entity store. For postgres the embedded
// migrations are applied first.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
		if err := migrator.MigrateEmbedded(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
		return postgresStore.New(database), nil

	case config.StorageMemory:
		lgr.Info().Msg("Using in-memory entity store")
		return memoryStore.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// BuildDependencies initializes services, controllers and middleware on top of store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Store:   store,
		Metrics: appMetrics.New(),
		Logger:  lgr,
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.Duration("jwt.access_token_expiration", cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(store)

	policy := cfg.DeletePolicy()
	deps.CatalogService = appServices.NewCatalogService(store, policy)
	deps.RosterService = appServices.NewRosterService(store, policy)
	deps.EnrollmentService = appServices.NewEnrollmentService(store, deps.AuthzService, deps.Metrics)
	deps.ResultsService = appServices.NewResultsService(store, deps.Metrics)
	deps.ProjectionService = appServices.NewProjectionService(store, deps.AuthzService, deps.Metrics)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.HealthController = appControllers.NewHealthController(store)
	deps.CourseController = appControllers.NewCourseController(deps.CatalogService)
	deps.StudentController = appControllers.NewStudentController(deps.RosterService)
	deps.RegistrationController = appControllers.NewRegistrationController(deps.EnrollmentService)
	deps.ResultController = appControllers.NewResultController(deps.ResultsService, deps.ProjectionService)
	deps.DashboardController = appControllers.NewDashboardController(deps.ProjectionService)

	lgr.Info().Str("deletePolicy", string(policy)).Msg("Dependencies initialized")
	return deps, nil
}

// SeedDefaultData writes the demo records when seeding is enabled.
func SeedDefaultData(ctx context.Context, cfg *config.Config, deps *Dependencies) {
	if !cfg.Seed.Enabled {
		return
	}
	err := seed.CreateDefaultData(ctx, seed.Services{
		Catalog:    deps.CatalogService,
		Roster:     deps.RosterService,
		Enrollment: deps.EnrollmentService,
		Results:    deps.ResultsService,
	}, logger.Component("seed"))
	if err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger(deps.Metrics))

	appRoutes.SetupRouter(router, appRoutes.Controllers{
		Health:       deps.HealthController,
		Course:       deps.CourseController,
		Student:      deps.StudentController,
		Registration: deps.RegistrationController,
		Result:       deps.ResultController,
		Dashboard:    deps.DashboardController,
	}, deps.AuthMiddleware, deps.Metrics)

	return router
}
