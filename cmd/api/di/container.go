package di

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"image-classifier-service/cmd/api/infrastructure"
	"image-classifier-service/internal/adapter/cache"
	"image-classifier-service/internal/adapter/classifier"
	"image-classifier-service/internal/adapter/db/gormrepo"
	ginhandler "image-classifier-service/internal/adapter/gin/handler"
	"image-classifier-service/internal/adapter/gin/middleware"
	ginrouter "image-classifier-service/internal/adapter/gin/router"
	"image-classifier-service/internal/adapter/registry"
	"image-classifier-service/internal/adapter/repository/cached"
	"image-classifier-service/internal/adapter/session"
	"image-classifier-service/internal/config"
	"image-classifier-service/internal/usecase/auth"
	"image-classifier-service/internal/usecase/gallery"
	"image-classifier-service/internal/usecase/status"
	"image-classifier-service/internal/usecase/upload"
	redisclient "image-classifier-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	AuthUC      auth.Usecase
	UploadUC    *upload.Service
	GalleryUC   *gallery.Usecase
	Results     *registry.Registry
	Reporter    *status.Reporter
	RateLimiter *middleware.RateLimiter
	Handlers    ginrouter.Handlers
	Cookie      middleware.SessionCookie
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if !cfg.Classifier.CredentialsPresent() {
		l.Warn("classifier credentials file not found, uploads will fail to classify",
			zap.String("path", cfg.Classifier.CredentialsFile),
		)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		return nil, multierr.Append(
			fmt.Errorf("failed to initialize Redis: %w", err),
			infrastructure.CloseDatabase(db),
		)
	}

	// Accounts and sessions
	userCache := cache.NewRedisUserCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)
	users := cached.NewUserRepository(gormrepo.NewUserRepo(db, l), userCache, l)
	sessions := session.NewRedisStore(rdb.Client, time.Duration(cfg.Session.TTLSeconds)*time.Second, l)
	authUC := auth.New(users, sessions, l)

	// Classification
	images := gormrepo.NewImageRepo(db, l)
	results := registry.New()
	reporter := status.NewReporter()
	gemini := classifier.NewGeminiClassifier(classifier.Config{
		CredentialsFile: cfg.Classifier.CredentialsFile,
		ProjectID:       cfg.Classifier.ProjectID,
		Location:        cfg.Classifier.Location,
		Model:           cfg.Classifier.Model,
		DefaultScore:    cfg.Classifier.DefaultScore,
		Timeout:         cfg.Classifier.Timeout(),
	}, l)
	uploadUC := upload.New(
		upload.NewDiskStorage(cfg.Upload.Dir, l),
		gemini,
		results,
		images,
		reporter,
		l,
	)
	galleryUC := gallery.New(images, l)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(
		rdb.Client,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	cookie := middleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.TTLSeconds,
		Secure: cfg.Session.Secure,
	}

	// Initialize Gin handlers
	handlers := ginrouter.Handlers{
		Auth:    ginhandler.NewAuthHandler(authUC, cookie, l),
		Upload:  ginhandler.NewUploadHandler(uploadUC, cfg.Upload.MaxMemoryMB<<20, l),
		Gallery: ginhandler.NewGalleryHandler(galleryUC, l),
		Status:  ginhandler.NewStatusHandler(reporter, rdb),
	}

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		AuthUC:      authUC,
		UploadUC:    uploadUC,
		GalleryUC:   galleryUC,
		Results:     results,
		Reporter:    reporter,
		RateLimiter: rateLimiter,
		Handlers:    handlers,
		Cookie:      cookie,
	}, nil
}

// Router builds the HTTP router over the container's handlers
func (c *Container) Router() *gin.Engine {
	return ginrouter.SetupRouter(c.Handlers, ginrouter.Options{
		AuthUC:      c.AuthUC,
		Cookie:      c.Cookie,
		RateLimiter: c.RateLimiter,
		SwaggerFile: c.Config.App.SwaggerFile,
	}, c.Logger)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var err error

	// Close Redis connection
	if c.RedisClient != nil {
		if cerr := c.RedisClient.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close Redis: %w", cerr))
		}
	}

	// Close database connection
	if c.DB != nil {
		if cerr := infrastructure.CloseDatabase(c.DB); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close database: %w", cerr))
		}
	}

	return err
}
