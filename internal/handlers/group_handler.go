package handlers

import (
	"usergroups/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// GroupHandler handles HTTP requests for groups.
type GroupHandler struct {
	service *services.GroupService
	log     zerolog.Logger
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(service *services.GroupService, log zerolog.Logger) *GroupHandler {
	return &GroupHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the group routes behind the given guards.
func (h *GroupHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	groupRoutes := router.Group("/groups")
	groupRoutes.Get("/", guarded(h.log, guards, h.HandleGetGroups)...)
	groupRoutes.Get("/group/:groupId", guarded(h.log, guards, h.HandleGetGroup)...)
	groupRoutes.Post("/group", guarded(h.log, guards, h.HandleCreateGroup)...)
	groupRoutes.Put("/group/:groupId", guarded(h.log, guards, h.HandleUpdateGroup)...)
	groupRoutes.Delete("/group/:groupId", guarded(h.log, guards, h.HandleDeleteGroup)...)
}

func (h *GroupHandler) HandleGetGroups(c *fiber.Ctx) error {
	res, err := h.service.ListGroups(c.UserContext())
	return respond(c, res, err)
}

func (h *GroupHandler) HandleGetGroup(c *fiber.Ctx) error {
	res, err := h.service.GetGroup(c.UserContext(), c.Params("groupId"))
	return respond(c, res, err)
}

func (h *GroupHandler) HandleCreateGroup(c *fiber.Ctx) error {
	res, err := h.service.CreateGroup(c.UserContext(), c.Body())
	return respond(c, res, err)
}

func (h *GroupHandler) HandleUpdateGroup(c *fiber.Ctx) error {
	res, err := h.service.UpdateGroup(c.UserContext(), c.Params("groupId"), c.Body())
	return respond(c, res, err)
}

// HandleDeleteGroup removes a group. Membership rows pointing at it are kept.
func (h *GroupHandler) HandleDeleteGroup(c *fiber.Ctx) error {
	res, err := h.service.DeleteGroup(c.UserContext(), c.Params("groupId"))
	return respond(c, res, err)
}
