package handlers

import (
	"usergroups/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserGroupHandler handles HTTP requests for group memberships.
type UserGroupHandler struct {
	service *services.MembershipService
	log     zerolog.Logger
}

// NewUserGroupHandler creates a new UserGroupHandler.
func NewUserGroupHandler(service *services.MembershipService, log zerolog.Logger) *UserGroupHandler {
	return &UserGroupHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the membership routes behind the given guards.
func (h *UserGroupHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	userGroupRoutes := router.Group("/userGroups")
	userGroupRoutes.Get("/", guarded(h.log, guards, h.HandleGetUserGroups)...)
	userGroupRoutes.Post("/group/:groupId", guarded(h.log, guards, h.HandleAddUsersToGroup)...)
}

func (h *UserGroupHandler) HandleGetUserGroups(c *fiber.Ctx) error {
	res, err := h.service.ListMemberships(c.UserContext())
	return respond(c, res, err)
}

// HandleAddUsersToGroup attaches the users listed in the body to a group.
func (h *UserGroupHandler) HandleAddUsersToGroup(c *fiber.Ctx) error {
	res, err := h.service.AddUsersToGroup(c.UserContext(), c.Params("groupId"), c.Body())
	return respond(c, res, err)
}
