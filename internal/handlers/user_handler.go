package handlers

import (
	"strconv"

	"usergroups/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service *services.UserService
	log     zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the user routes. Extra handlers, such as the auth
// gate, run before every user route.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", guarded(h.log, guards, h.HandleGetUsers)...)
	userRoutes.Get("/AutoSuggestUsers", guarded(h.log, guards, h.HandleAutoSuggestUsers)...)
	userRoutes.Get("/user/:id", guarded(h.log, guards, h.HandleGetUser)...)
	userRoutes.Post("/user", guarded(h.log, guards, h.HandleCreateUser)...)
	userRoutes.Put("/user/:id", guarded(h.log, guards, h.HandleUpdateUser)...)
	userRoutes.Delete("/user/:id", guarded(h.log, guards, h.HandleDeleteUser)...)
}

// HandleGetUsers lists every user.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	res, err := h.service.ListUsers(c.UserContext())
	return respond(c, res, err)
}

// HandleGetUser returns a single user by id.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	res, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	return respond(c, res, err)
}

// HandleCreateUser creates a user from the request body.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	res, err := h.service.CreateUser(c.UserContext(), c.Body())
	return respond(c, res, err)
}

// HandleUpdateUser replaces an existing user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	res, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), c.Body())
	return respond(c, res, err)
}

// HandleDeleteUser soft-deletes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	res, err := h.service.DeleteUser(c.UserContext(), c.Params("id"))
	return respond(c, res, err)
}

// HandleAutoSuggestUsers searches users by login substring. Both limit and
// loginSubstring are required and limit must be an integer.
func (h *UserHandler) HandleAutoSuggestUsers(c *fiber.Ctx) error {
	rawLimit := c.Query("limit")
	loginSubstring := c.Query("loginSubstring")
	if rawLimit == "" || !queryPresent(c, "loginSubstring") {
		return &HTTPError{Status: fiber.StatusUnprocessableEntity, Message: "Incorrect request parameters"}
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil {
		return &HTTPError{
			Status:  fiber.StatusUnprocessableEntity,
			Message: "Incorrect request parameters",
			Cause:   "limit must be an integer",
		}
	}

	res, err := h.service.AutoSuggestUsers(c.UserContext(), loginSubstring, limit)
	return respond(c, res, err)
}

func queryPresent(c *fiber.Ctx, key string) bool {
	return c.Context().QueryArgs().Has(key)
}
