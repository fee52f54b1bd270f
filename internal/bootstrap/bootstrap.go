package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/registrar/internal/app/auth"
	appControllers "github.com/yigit/registrar/internal/app/controllers"
	appMigrations "github.com/yigit/registrar/internal/app/migrations"
	appRepos "github.com/yigit/registrar/internal/app/repositories"
	appRoutes "github.com/yigit/registrar/internal/app/routes"
	appServices "github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	appMiddleware "github.com/yigit/registrar/internal/middleware"
	pkgAuth "github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/filestorage"
	"github.com/yigit/registrar/internal/pkg/helpers"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/upload"
	"github.com/yigit/registrar/internal/pkg/validation"
	"github.com/yigit/registrar/internal/seed"
)

// multipartOverhead is the body allowance for the text fields of an enrollment
const multipartOverhead = 1 << 20

// DefaultConfigPath is read when no other path is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	FileStorage    *filestorage.LocalStorage
	UploadPolicy   upload.Policy
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.ToLower(cfg.Logging.Format) == "text",
		Service: "registrar",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies pending migrations when auto_migrate is on,
// and seeds the reference data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Str("dsn", cfg.RedactedConnectionString()).Msg("Establishing database connection...")
	pdb, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.AutoMigrate {
		applied, err := appMigrations.NewMigrator(pdb).Up(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			pdb.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Int("applied", applied).Msg("Database migrations up to date")
	}

	if err := seed.CreateDefaultData(ctx, pdb.Pool, SeedOptions(cfg), lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return pdb, nil
}

// SeedOptions extracts the bootstrap account settings
func SeedOptions(cfg *config.Config) seed.Options {
	return seed.Options{
		AdminUsername: cfg.Bootstrap.AdminUsername,
		AdminPassword: cfg.Bootstrap.AdminPassword,
	}
}

// NewJWTService builds the token service from configuration
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, pdb *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: lgr,
		UploadPolicy: upload.Policy{
			MaxFiles:    cfg.Upload.MaxFiles,
			MaxFileSize: cfg.Upload.MaxFileSize,
		},
	}

	deps.Repos = appRepos.NewRepositories(pdb.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = NewJWTService(cfg)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	deps.Services = &appServices.Services{
		Auth:       appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr),
		Enrollment: appServices.NewEnrollmentService(pdb, deps.FileStorage, lgr),
		Student:    appServices.NewStudentService(pdb, deps.Repos.StudentRepository, lgr),
		Tariff:     appServices.NewTariffService(deps.Repos.TariffRepository),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.Services.Auth, lgr),
		User:       appControllers.NewUserController(deps.Services.Auth),
		Enrollment: appControllers.NewEnrollmentController(deps.Services.Enrollment, deps.UploadPolicy, lgr),
		Student:    appControllers.NewStudentController(deps.Services.Student),
		Tariff:     appControllers.NewTariffController(deps.Services.Tariff),
		Health:     appControllers.NewHealthController(pdb),
	}

	return deps, nil
}

// UploadBodyLimit is the largest enrollment request accepted
func (d *Dependencies) UploadBodyLimit() int64 {
	return int64(d.UploadPolicy.MaxFiles)*d.UploadPolicy.MaxFileSize + multipartOverhead
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
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
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	router.MaxMultipartMemory = deps.UploadPolicy.MaxFileSize

	if !cfg.IsProduction() {
		appRoutes.SetupSwagger(router)
	}
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.UploadBodyLimit())

	return router, nil
}
