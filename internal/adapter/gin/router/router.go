package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"image-classifier-service/internal/adapter/gin/handler"
	"image-classifier-service/internal/adapter/gin/middleware"
	"image-classifier-service/internal/usecase/auth"
)

// SwaggerSpecPath is where the OpenAPI document is served.
const SwaggerSpecPath = "/api-docs/classifier.swagger.json"

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Auth    *handler.AuthHandler
	Upload  *handler.UploadHandler
	Gallery *handler.GalleryHandler
	Status  *handler.StatusHandler
}

// Options configures SetupRouter.
type Options struct {
	AuthUC      auth.Usecase
	Cookie      middleware.SessionCookie
	RateLimiter *middleware.RateLimiter
	SwaggerFile string // empty disables the docs routes
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(h Handlers, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(opts.RateLimiter.Middleware())

	// Public routes
	router.GET("/health", h.Status.Health)
	router.GET("/status", h.Status.Status)
	router.GET("/login", h.Auth.LoginForm)
	router.POST("/login", h.Auth.Login)
	router.GET("/sign-up", h.Auth.SignUpForm)
	router.POST("/sign-up", h.Auth.SignUp)

	if opts.SwaggerFile != "" {
		router.GET(SwaggerSpecPath, func(c *gin.Context) {
			c.File(opts.SwaggerFile)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL(SwaggerSpecPath),
		)))
	}

	// Routes that need a signed-in user
	authed := router.Group("/")
	authed.Use(middleware.RequireAuth(opts.AuthUC, opts.Cookie, log))
	{
		authed.GET("/", h.Gallery.Home)
		authed.GET("/logout", h.Auth.Logout)
		authed.POST("/upload_image", h.Upload.UploadImage)
		authed.GET("/result/:id", h.Upload.GetResult)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{
			Error:   "not_found",
			Message: "The requested URL was not found on the server.",
		})
	})

	return router
}
