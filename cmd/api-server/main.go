package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/cache"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/mail"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("could not connect to database", "error", err)
		os.Exit(1)
	}

	// Redis is optional; without it title reads just skip the cache.
	var titleCache *cache.TitleCache
	if redisClient, err := database.ConnectRedis(cfg); err != nil {
		logger.Warn("redis unavailable, title cache disabled", "error", err)
	} else {
		titleCache = cache.NewTitleCache(redisClient, cfg.CacheTTL)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	confirmationSecret := cfg.ConfirmationSecret
	if confirmationSecret == "" {
		confirmationSecret = cfg.JWTSecret
	}
	codes := auth.NewCodeGenerator(confirmationSecret, cfg.ConfirmationCodeTTL)
	mailer := mail.NewMailer(cfg, logger)

	authService := service.NewAuthService(userRepo, codes, mailer, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, reviewRepo, categoryRepo, genreRepo, titleCache)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, titleCache)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.Use(middleware.Identify(authService, userRepo))

	authGroup := v1.Group("/auth", middleware.RateLimit(cfg.AuthRatePerSecond, cfg.AuthBurst))
	handler.NewAuthHandler(authService).RegisterRoutes(authGroup)

	handler.NewUserHandler(userService).RegisterRoutes(v1.Group("/users"))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1.Group("/categories"))
	handler.NewGenreHandler(genreService).RegisterRoutes(v1.Group("/genres"))

	titles := v1.Group("/titles")
	handler.NewTitleHandler(titleService).RegisterRoutes(titles)

	reviews := titles.Group("/:title_id/reviews")
	handler.NewReviewHandler(reviewService).RegisterRoutes(reviews)

	comments := reviews.Group("/:review_id/comments")
	handler.NewCommentHandler(commentService).RegisterRoutes(comments)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
