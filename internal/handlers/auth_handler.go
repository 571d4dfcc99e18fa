package handlers

import (
	"usergroups/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the login route. guards run before it, e.g. a rate limiter.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/login", guarded(h.log, guards, h.HandleLogin)...)
}

// HandleLogin checks credentials and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	res, err := h.authService.Login(c.UserContext(), c.Body())
	return respond(c, res, err)
}
