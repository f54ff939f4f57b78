package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/readquest/library-system/docs"
	"github.com/readquest/library-system/internal/api/handler"
	"github.com/readquest/library-system/internal/api/middleware"
	"github.com/readquest/library-system/internal/core/domain"
	"github.com/readquest/library-system/internal/core/service"
	"github.com/readquest/library-system/internal/infrastructure/config"
	mongodb "github.com/readquest/library-system/internal/infrastructure/db/mongo"
	redisdb "github.com/readquest/library-system/internal/infrastructure/db/redis"
	"github.com/readquest/library-system/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	sink storage.Sink,
	ledger service.XPLedger,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	bookRepo := mongodb.NewBookRepository(db)
	progressRepo := mongodb.NewProgressRepository(db)
	catalogCache := redisdb.NewCatalogCache(rdb)

	progressionService := service.NewProgressionService(userRepo, ledger, log)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	libraryService := service.NewLibraryService(
		bookRepo, userRepo, progressRepo, progressionService, sink, catalogCache, log)
	progressService := service.NewProgressService(progressRepo, userRepo, progressionService, log)
	userService := service.NewUserService(userRepo, bookRepo, progressRepo)

	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(libraryService)
	progressHandler := handler.NewProgressHandler(progressService)
	userHandler := handler.NewUserHandler(userService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Catalog ---
	v1 := e.Group("/v1")
	v1.GET("/books", bookHandler.List) // public: approved catalog

	books := v1.Group("/books", authMiddleware)
	books.POST("", bookHandler.Contribute,
		echomiddleware.BodyLimit(fmt.Sprintf("%dM", cfg.Storage.MaxUploadMB)))
	books.GET("/all", bookHandler.ListAll, adminOnly)
	books.POST("/:book_id/approve", bookHandler.Approve, adminOnly)
	books.DELETE("/:book_id", bookHandler.Delete, adminOnly)
	books.GET("/:book_id/pdf", bookHandler.AccessPDF)

	// --- Reading progress ---
	books.POST("/:book_id/progress", progressHandler.Save)
	books.GET("/:book_id/progress", progressHandler.Get)
	books.POST("/:book_id/finish", progressHandler.Finish)

	// --- Users ---
	v1.GET("/users/:user_id", userHandler.Profile, authMiddleware)

	// --- Static uploads (disk sink only) ---
	if disk, ok := sink.(*storage.DiskSink); ok {
		e.Static("/uploads", disk.Dir())
	}

	// --- Health probes / metrics / docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
