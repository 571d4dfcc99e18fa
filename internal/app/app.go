// Package app wires repositories, services and handlers into a fiber app.
package app

import (
	"time"

	"usergroups/internal/config"
	"usergroups/internal/handlers"
	"usergroups/internal/logger"
	"usergroups/internal/middleware"
	"usergroups/internal/repositories"
	"usergroups/internal/services"
	"usergroups/internal/validation"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the app is built from. Events and
// RateStore are optional.
type Dependencies struct {
	DB        *gorm.DB
	Config    config.Config
	Log       zerolog.Logger
	Events    services.EventPublisher
	RateStore middleware.RateStore
}

// New builds the HTTP application.
func New(deps Dependencies) *fiber.App {
	cfg := deps.Config
	log := deps.Log

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	groupRepo := repositories.NewGORMGroupRepository(deps.DB)
	userGroupRepo := repositories.NewGORMUserGroupRepository(deps.DB)

	// --- Services ---
	rules := validation.New()
	passwords := services.NewPasswordHasher(cfg.PasswordHashing)
	userService := services.NewUserService(userRepo, rules, passwords, deps.Events, logger.ForController(log, "users"))
	groupService := services.NewGroupService(groupRepo, rules, deps.Events, logger.ForController(log, "groups"))
	membershipService := services.NewMembershipService(userGroupRepo, groupRepo, userRepo, rules, deps.Events, logger.ForController(log, "userGroups"))
	authService := services.NewAuthService(userRepo, rules, passwords, cfg.JWTSecret, cfg.TokenTTL, logger.ForController(log, "auth"))

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, logger.ForController(log, "users"))
	groupHandler := handlers.NewGroupHandler(groupService, logger.ForController(log, "groups"))
	userGroupHandler := handlers.NewUserGroupHandler(membershipService, logger.ForController(log, "userGroups"))
	authHandler := handlers.NewAuthHandler(authService, logger.ForController(log, "auth"))

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error().Interface("panic", e).Str("path", c.Path()).Msg("recovered from panic")
		},
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: log,
		Format: "${time} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Service is running!")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Routes ---
	var loginGuards []fiber.Handler
	if deps.RateStore != nil {
		limiter := middleware.NewRateLimiter(deps.RateStore, log)
		loginGuards = append(loginGuards, limiter.Limit("login", cfg.LoginRateLimit, cfg.LoginRateWindow))
	}
	authHandler.RegisterRoutes(app, loginGuards...)

	var guards []fiber.Handler
	if cfg.AuthEnabled {
		guards = append(guards, middleware.AuthRequired(authService, log))
	}
	userHandler.RegisterRoutes(app, guards...)
	groupHandler.RegisterRoutes(app, guards...)
	userGroupHandler.RegisterRoutes(app, guards...)

	app.Use(handlers.NotFound)

	return app
}
