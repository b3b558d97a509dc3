package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/handler"
	"github.com/jamdate/jamdate-backend/internal/delivery/http/middleware"
	"github.com/jamdate/jamdate-backend/internal/infrastructure/storage"
	"github.com/jamdate/jamdate-backend/internal/validation"
)

// maxUploadBytes leaves room for multipart framing around a photo.
const maxUploadBytes = storage.MaxPhotoBytes + 1<<20

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	profileHandler   *handler.ProfileHandler
	favouriteHandler *handler.FavouriteHandler
	reportHandler    *handler.ReportHandler
	searchHandler    *handler.SearchHandler
	assistHandler    *handler.AssistHandler
	healthHandler    *handler.HealthHandler
	authMiddleware   *middleware.AuthMiddleware
	gateMiddleware   *middleware.GateMiddleware
	logger           *slog.Logger
	uploadsDir       string
}

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Profile   *handler.ProfileHandler
	Favourite *handler.FavouriteHandler
	Report    *handler.ReportHandler
	Search    *handler.SearchHandler
	Assist    *handler.AssistHandler
	Health    *handler.HealthHandler
}

// NewRouter wires handlers to routes. uploadsDir, when set, is served under
// /uploads for locally stored photos.
func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	gateMiddleware *middleware.GateMiddleware,
	logger *slog.Logger,
	uploadsDir string,
) *Router {
	return &Router{
		authHandler:      handlers.Auth,
		userHandler:      handlers.User,
		profileHandler:   handlers.Profile,
		favouriteHandler: handlers.Favourite,
		reportHandler:    handlers.Report,
		searchHandler:    handlers.Search,
		assistHandler:    handlers.Assist,
		healthHandler:    handlers.Health,
		authMiddleware:   authMiddleware,
		gateMiddleware:   gateMiddleware,
		logger:           logger,
		uploadsDir:       uploadsDir,
	}
}

func (r *Router) Setup() *gin.Engine {
	// Binding errors name fields the way clients send them.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Configure(v)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(r.logger))

	// Health check (supports both GET and HEAD)
	router.GET("/health", r.healthHandler.Health)
	router.HEAD("/health", r.healthHandler.Health)

	if r.uploadsDir != "" {
		router.Static("/uploads", r.uploadsDir)
	}

	requireAuth := r.authMiddleware.RequireAuth()
	requireProfile := r.gateMiddleware.RequireCompleteProfile()
	limitUpload := middleware.BodyLimit(maxUploadBytes)

	api := router.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", requireAuth, r.authHandler.Logout)
			auth.GET("/me", requireAuth, r.authHandler.Me)
			auth.DELETE("/me", requireAuth, r.userHandler.DeleteMe)
			auth.POST("/me/photo", requireAuth, limitUpload, r.userHandler.UploadPhoto)
		}

		// Public profile read
		api.GET("/profiles/:id", r.profileHandler.Get)

		// Authenticated routes open to users without a complete profile,
		// so they can build one
		authed := api.Group("")
		authed.Use(requireAuth)
		{
			authed.POST("/profiles", r.profileHandler.Create)
			authed.PUT("/profiles/:id", r.profileHandler.Update)
			authed.POST("/profiles/:id/photo", limitUpload, r.profileHandler.UploadPhoto)
			authed.POST("/assist/biography", r.assistHandler.SuggestBiography)
		}

		// Gated routes
		gated := api.Group("")
		gated.Use(requireAuth, requireProfile)
		{
			gated.GET("/profiles", r.profileHandler.List)
			gated.GET("/profiles/:id/matches", r.profileHandler.Matches)

			gated.GET("/users", r.userHandler.List)
			gated.GET("/users/:id", r.userHandler.Get)
			gated.GET("/users/:id/favourites", r.favouriteHandler.OfUser)
			gated.POST("/users/:id/favourite", r.favouriteHandler.Add)
			gated.DELETE("/users/:id/favourite", r.favouriteHandler.Remove)

			gated.GET("/favourites", r.favouriteHandler.Mine)
			gated.GET("/favourites/top/:n", r.favouriteHandler.Top)
			gated.GET("/favourites/most-favourited", r.favouriteHandler.MostFavourited)

			gated.GET("/search", r.searchHandler.Search)

			gated.POST("/reports", r.reportHandler.Submit)
			gated.GET("/reports", r.reportHandler.List)
		}
	}

	return router
}
