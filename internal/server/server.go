// Package server contains the HTTP handlers for the AppView's XRPC API.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/fujocoded/guestbook-appview/internal/auth"
	"github.com/fujocoded/guestbook-appview/internal/cache"
	"github.com/fujocoded/guestbook-appview/internal/config"
	"github.com/fujocoded/guestbook-appview/internal/database"
	"github.com/fujocoded/guestbook-appview/internal/identity"
	"github.com/fujocoded/guestbook-appview/internal/middleware"
	"github.com/fujocoded/guestbook-appview/internal/repository"
	"github.com/fujocoded/guestbook-appview/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// XRPC method identifiers served by this AppView. Inter-service tokens bind
// to these via their lxm claim.
const (
	NSIDGetGuestbook  = "com.fujocoded.guestbook.getGuestbook"
	NSIDGetGuestbooks = "com.fujocoded.guestbook.getGuestbooks"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	guestbookRepo  repository.GuestbookRepository
	submissionRepo repository.SubmissionRepository
	blockRepo      repository.BlockRepository
	guestbooks     *service.GuestbookService
	auth           *auth.ServiceAuth
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	keys := identity.NewDirectoryClient(cfg.PLCDirectoryURL)
	profiles := identity.NewBskyProfileClient(cfg.ProfileAPIURL)

	return newServer(cfg, db, redisClient, keys, profiles), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and the
// identity resolvers.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, keys identity.KeyResolver, profiles identity.ProfileResolver) *Server {
	return newServer(cfg, db, redisClient, keys, profiles)
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, keys identity.KeyResolver, profiles identity.ProfileResolver) *Server {
	userRepo := repository.NewUserRepository(db)
	guestbookRepo := repository.NewGuestbookRepository(db, userRepo)
	submissionRepo := repository.NewSubmissionRepository(db, userRepo)
	blockRepo := repository.NewBlockRepository(db, userRepo)

	prom := middleware.InitMetrics("guestbook-appview")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		guestbookRepo:  guestbookRepo,
		submissionRepo: submissionRepo,
		blockRepo:      blockRepo,
		auth:           auth.NewServiceAuth(cfg.ServiceDID(), keys),
	}
	server.guestbooks = service.NewGuestbookService(guestbookRepo, submissionRepo, blockRepo, userRepo, profiles)

	return server
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and caller DID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Service identity document
	app.Get("/.well-known/did.json", s.GetDIDDocument)

	xrpc := app.Group("/xrpc")
	xrpc.Get("/"+NSIDGetGuestbook, middleware.RateLimit(
		s.redis, 60, time.Minute, "getGuestbook"), s.GetGuestbook)
	xrpc.Get("/"+NSIDGetGuestbooks, middleware.RateLimit(
		s.redis, 60, time.Minute, "getGuestbooks"), s.GetGuestbooks)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional; the AppView serves reads without it.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
