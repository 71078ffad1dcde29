package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/hostelpg/internal/app/controllers"
	appMigrations "github.com/yigit/hostelpg/internal/app/migrations"
	"github.com/yigit/hostelpg/internal/app/models/dto"
	appRepos "github.com/yigit/hostelpg/internal/app/repositories"
	appRoutes "github.com/yigit/hostelpg/internal/app/routes"
	appServices "github.com/yigit/hostelpg/internal/app/services"
	"github.com/yigit/hostelpg/internal/config"
	"github.com/yigit/hostelpg/internal/db"
	appMiddleware "github.com/yigit/hostelpg/internal/middleware"
	pkgAuth "github.com/yigit/hostelpg/internal/pkg/auth"
	"github.com/yigit/hostelpg/internal/pkg/filestorage"
	"github.com/yigit/hostelpg/internal/pkg/helpers"
	"github.com/yigit/hostelpg/internal/pkg/logger"
	"github.com/yigit/hostelpg/internal/pkg/validation"
	"github.com/yigit/hostelpg/internal/seed"
)

// maxUploadMemory bounds the multipart form kept in memory
const maxUploadMemory = 8 << 20

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Revocation     pkgAuth.RevocationStore
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	lgr.Info().Str("path", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// SetupRevocationStore connects to Redis when configured and otherwise keeps
// revoked tokens in process memory.
func SetupRevocationStore(cfg *config.Config, lgr zerolog.Logger) (pkgAuth.RevocationStore, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Warn().Msg("Redis not configured; token revocations are kept in memory")
		return pkgAuth.NewMemoryRevocationStore(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Token revocation backed by Redis")
	return pkgAuth.NewRedisRevocationStore(client), client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, revocation pkgAuth.RevocationStore, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Revocation: revocation}

	deps.Repos = appRepos.NewRepositories(dbPool)

	if cfg.Seed.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seed.CreateDefaultData(ctx, deps.Repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
		cancel()
	}

	// Image URLs must match the static route served by the server
	fileStorageBaseURL := strings.TrimRight(cfg.Server.BaseURL, "/") + filestorage.PublicPrefix
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	tokenTTL := helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: tokenTTL,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, tokenTTL, revocation, deps.FileStorage, lgr)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, revocation)
	deps.Controllers = NewControllers(deps.Services, lgr)

	return deps, nil
}

// NewControllers builds the HTTP handlers over the services
func NewControllers(svc *appServices.Services, lgr zerolog.Logger) appRoutes.Controllers {
	return appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(svc.Auth, lgr),
		Hostels:    appControllers.NewHostelController(svc.Hostels, svc.Bookings),
		PGs:        appControllers.NewPGController(svc.PGs, svc.Bookings),
		Bookings:   appControllers.NewBookingController(svc.Bookings),
		Students:   appControllers.NewStudentController(svc.Students),
		Engagement: appControllers.NewEngagementController(svc.Reviews, svc.Favorites, svc.Notifications),
		Admin:      appControllers.NewAdminController(svc.Admin, lgr),
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), cors.New(corsConfig(cfg.Server.CORSOrigins)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.Static(filestorage.PublicPrefix, deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	router.NoRoute(func(c *gin.Context) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
	})

	return router, nil
}

// corsConfig allows every origin for "*" and otherwise the comma separated list
func corsConfig(origins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", appMiddleware.HeaderRequestID},
		ExposeHeaders: []string{appMiddleware.HeaderRequestID, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}

	origins = strings.TrimSpace(origins)
	if origins == "" || origins == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}

	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	cfg.AllowCredentials = true
	return cfg
}
