package container

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/jamdate/jamdate-backend/internal/config"
	"github.com/jamdate/jamdate-backend/internal/delivery/http"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/handler"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/middleware"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/database"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/gemini"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/server"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/storage"
	"github.com/jamdate/jamdate-backend/internal/repository"
	"github.com/jamdate/jamdate-backend/internal/repository/postgres"
	redisrepo "github.com/jamdate/jamdate-backend/internal/repository/redis"
	"github.com/jamdate/jamdate-backend/internal/usecase/access"
	"github.com/jamdate/jamdate-backend/internal/usecase/assist"
	"github.com/jamdate/jamdate-backend/internal/usecase/auth"
	"github.com/jamdate/jamdate-backend/internal/usecase/favourite"
	"github.com/jamdate/jamdate-backend/internal/usecase/match"
	"github.com/jamdate/jamdate-backend/internal/usecase/photo"
	"github.com/jamdate/jamdate-backend/internal/usecase/profile"
	"github.com/jamdate/jamdate-backend/internal/usecase/report"
	"github.com/jamdate/jamdate-backend/internal/usecase/search"
	"github.com/jamdate/jamdate-backend/internal/usecase/user"
	"github.com/jamdate/jamdate-backend/internal/validation"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.GeminiClient
	logger *slog.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, version goversion.Info, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, logger: logger}

	db, err := database.NewPostgresDB(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	redisClient, err := database.NewRedisClient(ctx, &cfg.Redis, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.Redis = redisClient

	photos, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	// Biography suggestions fall back to templates without Gemini
	var biographer assist.BiographyGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("failed to initialize gemini client", "error", err)
		} else {
			c.Gemini = geminiClient
			biographer = geminiClient
		}
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	favouriteRepo := postgres.NewFavouriteRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	txManager := postgres.NewTxManager(db)

	var blocklist repository.TokenBlocklist
	if redisClient != nil {
		blocklist = redisrepo.NewTokenBlocklist(redisClient)
	}

	validate := validation.New()
	uploader := photo.NewUploader(photos)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		profileRepo,
		blocklist,
		validate,
		cfg.JWT.AccessSecret,
		time.Duration(cfg.JWT.AccessExpiryMin)*time.Minute,
	)
	gate := access.NewGate(userRepo, profileRepo)
	profileUseCase := profile.NewProfileUseCase(profileRepo, userRepo, txManager, uploader, validate, cfg.Listing)
	matchUseCase := match.NewMatchUseCase(profileRepo)
	favouriteUseCase := favourite.NewFavouriteUseCase(favouriteRepo, userRepo, cfg.Listing.FavouritesTopDefault)
	reportUseCase := report.NewReportUseCase(reportRepo, userRepo, validate)
	userUseCase := user.NewUserUseCase(userRepo, profileRepo, favouriteRepo, txManager, uploader)
	searchUseCase := search.NewSearchUseCase(profileRepo)
	assistUseCase := assist.NewAssistUseCase(biographer, validate, logger)

	// Initialize handlers
	handlers := http.Handlers{
		Auth:      handler.NewAuthHandler(authUseCase),
		User:      handler.NewUserHandler(userUseCase),
		Profile:   handler.NewProfileHandler(profileUseCase, matchUseCase),
		Favourite: handler.NewFavouriteHandler(favouriteUseCase),
		Report:    handler.NewReportHandler(reportUseCase),
		Search:    handler.NewSearchHandler(searchUseCase),
		Assist:    handler.NewAssistHandler(assistUseCase),
		Health:    handler.NewHealthHandler(version),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)
	gateMiddleware := middleware.NewGateMiddleware(gate)

	uploadsDir := ""
	if cfg.Storage.Type == storage.TypeLocal {
		uploadsDir = cfg.Storage.Path
	}

	router := http.NewRouter(handlers, authMiddleware, gateMiddleware, logger, uploadsDir)
	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.logger.Error("error closing gemini client", "error", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("error closing redis", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
