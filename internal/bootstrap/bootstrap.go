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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aquaclub/aquaclub/docs" // Import generated swagger docs
	appControllers "github.com/aquaclub/aquaclub/internal/app/controllers"
	appMigrations "github.com/aquaclub/aquaclub/internal/app/migrations"
	appRepos "github.com/aquaclub/aquaclub/internal/app/repositories"
	appRoutes "github.com/aquaclub/aquaclub/internal/app/routes"
	appServices "github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/config"
	"github.com/aquaclub/aquaclub/internal/db"
	"github.com/aquaclub/aquaclub/internal/metrics"
	appMiddleware "github.com/aquaclub/aquaclub/internal/middleware"
	pkgAuth "github.com/aquaclub/aquaclub/internal/pkg/auth"
	"github.com/aquaclub/aquaclub/internal/pkg/email"
	"github.com/aquaclub/aquaclub/internal/pkg/helpers"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
	"github.com/aquaclub/aquaclub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	ProfileService     appServices.ProfileService
	EventService       appServices.EventService
	CardService        appServices.CardService
	PurchaseService    appServices.PurchaseService
	ArticleService     appServices.ArticleService
	AuthController     *appControllers.AuthController
	EventController    *appControllers.EventController
	CardController     *appControllers.CardController
	PurchaseController *appControllers.PurchaseController
	ArticleController  *appControllers.ArticleController
	AdminController    *appControllers.AdminController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	EmailService       email.EmailService
	Logger             zerolog.Logger
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

	// Create default data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	metrics.Init()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	// Initialize services
	deps.ProfileService = appServices.NewProfileService(deps.Repos.ProfileRepository, lgr)
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.ProfileRepository,
		deps.ProfileService,
		deps.Repos.TokenRepository,
		deps.Repos.ResetTokenRepository,
		deps.JWTService,
		deps.EmailService,
		lgr,
	)
	deps.EventService = appServices.NewEventService(deps.Repos.EventRepository, deps.Repos.RegistrationRepository, lgr)
	deps.CardService = appServices.NewCardService(deps.Repos.CardRepository, lgr)
	deps.PurchaseService = appServices.NewPurchaseService(deps.Repos.PurchaseRepository, lgr)
	deps.ArticleService = appServices.NewArticleService(deps.Repos.ArticleRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.ProfileService)
	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.CardController = appControllers.NewCardController(deps.CardService)
	deps.PurchaseController = appControllers.NewPurchaseController(deps.PurchaseService)
	deps.ArticleController = appControllers.NewArticleController(deps.ArticleService)
	deps.AdminController = appControllers.NewAdminController(deps.ProfileService)

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
	router.Use(appMiddleware.HTTPMetrics())

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EventController,
		deps.CardController,
		deps.PurchaseController,
		deps.ArticleController,
		deps.AdminController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
