// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"paste-content-service/internal/app/service"
	"paste-content-service/internal/transport/httpserver/handler"
	"paste-content-service/internal/transport/httpserver/middleware"
	"paste-content-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
	Debug     bool
}

// Server wraps the Fiber app with its handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	postSvc *service.PostService,
	viewSvc *service.ViewService,
	likeSvc *service.LikeService,
	reviewSvc *service.ReviewService,
	db *gorm.DB,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	// Template engine for the dashboard
	engine := html.New("./web/templates", ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "paste-content-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(db))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())
	app.Use(compress.New())

	// Static files
	app.Static("/static", "./web/static")

	postHandler := handler.NewPostHandler(postSvc, viewSvc, v, logger)
	likeHandler := handler.NewLikeHandler(likeSvc, v, logger)
	reviewHandler := handler.NewReviewHandler(reviewSvc, v, logger)
	dashboardHandler := handler.NewDashboardHandler(postSvc, logger)

	registerRoutes(app, postHandler, likeHandler, reviewHandler, dashboardHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	postHandler *handler.PostHandler,
	likeHandler *handler.LikeHandler,
	reviewHandler *handler.ReviewHandler,
	dashboardHandler *handler.DashboardHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	// Dashboard (HTML)
	app.Get("/dashboard", dashboardHandler.Render)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	// Public hash alias lookup
	app.Get("/p/:hash", postHandler.GetByHash)

	// API v1 routes
	v1 := app.Group("/api/v1")

	posts := v1.Group("/posts")
	posts.Post("/", postHandler.Create)
	posts.Get("/slug/:slug", postHandler.GetBySlug)
	posts.Get("/:id", postHandler.GetByID)
	posts.Delete("/:id", postHandler.Delete)
	posts.Post("/:id/restore", postHandler.Restore)
	posts.Post("/:id/likes", likeHandler.Like)
	posts.Delete("/:id/likes", likeHandler.Unlike)
	posts.Post("/:id/reviews", reviewHandler.Add)
	posts.Get("/:id/reviews", reviewHandler.ListByPost)

	v1.Delete("/reviews/:id", reviewHandler.Delete)

	users := v1.Group("/users")
	users.Get("/:id/posts", postHandler.ListByUser)
	users.Delete("/:id/posts", postHandler.DeleteAllByUser)
	users.Post("/:id/posts/restore", postHandler.RestoreAllByUser)
	users.Get("/:id/likes", likeHandler.LikedPosts)
}

// errorHandler returns a custom error handler that logs based on HTTP status
// code. 404s are logged at DEBUG level (expected client behavior), 4xx at
// WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

// Listen starts the server on the configured port.
func (s *Server) Listen(port int) error {
	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
