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
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/advisorly/internal/app/controllers"
	appMigrations "github.com/yigit/advisorly/internal/app/migrations"
	appRepos "github.com/yigit/advisorly/internal/app/repositories"
	appRoutes "github.com/yigit/advisorly/internal/app/routes"
	appServices "github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/config"
	"github.com/yigit/advisorly/internal/db"
	appMiddleware "github.com/yigit/advisorly/internal/middleware"
	pkgAuth "github.com/yigit/advisorly/internal/pkg/auth"
	"github.com/yigit/advisorly/internal/pkg/logger"
	"github.com/yigit/advisorly/internal/pkg/validation"
	"github.com/yigit/advisorly/internal/pkg/websocket"
	"github.com/yigit/advisorly/internal/scheduler"
	"github.com/yigit/advisorly/internal/seed"
)

// DefaultConfigPath is where the YAML configuration is looked up
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Hub            *websocket.Hub
	Sweeper        *scheduler.Sweeper
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(DefaultConfigPath)
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

// ConnectDatabase opens the connection pool and checks it answers.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
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
	return dbPool, nil
}

// RunMigrations applies every pending migration in the configured directory.
func RunMigrations(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and, when enabled, seeds the demo accounts.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := RunMigrations(ctx, cfg, dbPool, lgr); err != nil {
		dbPool.Close()
		return nil, err
	}

	if cfg.Database.SeedDemoData {
		if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// NewJWTService builds the token service from the JWT configuration.
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(v); err != nil {
			return nil, fmt.Errorf("failed to register validation rules: %w", err)
		}
	}

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.JWTService = NewJWTService(cfg)
	deps.Hub = websocket.NewHub(logger.Component("websocket_hub"))
	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Hub, cfg.Location())
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	socket := websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, logger.Component("websocket_handler"))
	deps.Controllers = appRoutes.Controllers{
		Auth:               appControllers.NewAuthController(deps.Services.Auth, lgr),
		User:               appControllers.NewUserController(deps.Services.User),
		Project:            appControllers.NewProjectController(deps.Services.Project),
		Appointment:        appControllers.NewAppointmentController(deps.Services.Appointment),
		Comment:            appControllers.NewCommentController(deps.Services.Comment),
		Notification:       appControllers.NewNotificationController(deps.Services.Notification),
		NotificationSocket: socket.HandleConnection,
	}

	deps.Sweeper = scheduler.NewSweeper(
		deps.Services.Appointment.SweepExpired,
		cfg.SweepInterval(),
		logger.Component("expiry_sweeper"),
	)

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
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
