// Package app assembles the Fiber application from its stores and
// optional integrations.
package app

import (
	"errors"
	"time"

	"catalog/internal/cache"
	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the application is built from. Cache and
// Events may be nil.
type Deps struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository
	Users      repositories.UserRepository
	Cache      cache.ProductCache
	Events     services.EventPublisher
	Registry   *prometheus.Registry
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// New builds the HTTP application.
func New(cfg *config.Config, deps Deps) *fiber.App {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: errorHandler,
	})

	app.Use(requestid.New())
	app.Use(contextLogger)
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${respHeader:X-Request-ID} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.NewMetrics(deps.Registry).Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.DBDriver,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	authService := services.NewAuthService(deps.Users, cfg.JWTSecret)
	productService := services.NewProductService(deps.Products, deps.Categories, deps.Cache, deps.Events)
	categoryService := services.NewCategoryService(deps.Categories)

	var guards []fiber.Handler
	if cfg.AuthEnabled {
		guards = append(guards, middleware.AuthRequired(authService))
	}

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, guards...)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(apiV1, guards...)

	return app
}

// contextLogger puts a request-scoped logger into the user context so
// services can log through log.Ctx.
func contextLogger(c *fiber.Ctx) error {
	l := log.With().Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).Logger()
	c.SetUserContext(l.WithContext(c.UserContext()))
	return c.Next()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
