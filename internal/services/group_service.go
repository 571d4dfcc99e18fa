package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"usergroups/internal/identifier"
	"usergroups/internal/models"
	"usergroups/internal/repositories"
	"usergroups/internal/validation"

	"github.com/rs/zerolog"
)

const groupNotFoundMessage = "group with given uuid was not found"

// GroupService handles business logic related to groups.
type GroupService struct {
	repo   repositories.GroupRepository
	rules  *validation.Rules
	events EventPublisher
	log    zerolog.Logger
}

// NewGroupService creates a new GroupService. events may be nil.
func NewGroupService(repo repositories.GroupRepository, rules *validation.Rules, events EventPublisher, log zerolog.Logger) *GroupService {
	return &GroupService{
		repo:   repo,
		rules:  rules,
		events: events,
		log:    log,
	}
}

// ListGroups returns all groups.
func (s *GroupService) ListGroups(ctx context.Context) (Result, error) {
	groups, err := s.repo.GetAll(ctx)
	if err != nil {
		return Result{}, persistenceError("listGroups", err)
	}
	return ok("groups", nonNil(groups)), nil
}

// GetGroup returns one group by id.
func (s *GroupService) GetGroup(ctx context.Context, id string) (Result, error) {
	if !identifier.IsValid(id) {
		return badRequest(invalidUUIDMessage), nil
	}

	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(groupNotFoundMessage), nil
		}
		return Result{}, persistenceError("getGroup", err)
	}
	return ok("group", group), nil
}

// CreateGroup validates body and stores a new group.
func (s *GroupService) CreateGroup(ctx context.Context, body []byte) (Result, error) {
	in, err := s.rules.CreateGroup(body)
	if err != nil {
		return badRequest(err.Error()), nil
	}

	group := &models.Group{
		ID:          identifier.New(),
		Name:        in.Name,
		Permissions: in.Permissions,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return Result{}, persistenceError("createGroup", err)
	}

	publish(ctx, s.events, s.log, EventGroupCreated, map[string]any{"id": group.ID, "name": group.Name})
	return created("newGroup", group), nil
}

// UpdateGroup replaces name and permissions of an existing group. Checks run
// in order: body, id, existence.
func (s *GroupService) UpdateGroup(ctx context.Context, id string, body []byte) (Result, error) {
	in, err := s.rules.UpdateGroup(body)
	if err != nil {
		return badRequest(err.Error()), nil
	}
	if !identifier.IsValid(id) {
		return badRequest(invalidUUIDMessage), nil
	}

	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(groupNotFoundMessage), nil
		}
		return Result{}, persistenceError("updateGroup", err)
	}

	group.Name = in.Name
	group.Permissions = in.Permissions

	if err := s.repo.Update(ctx, group); err != nil {
		return Result{}, persistenceError("updateGroup", err)
	}

	publish(ctx, s.events, s.log, EventGroupUpdated, map[string]any{"id": group.ID, "name": group.Name})
	return ok("updatedGroup", group), nil
}

// DeleteGroup removes a group row. Its membership rows are kept.
func (s *GroupService) DeleteGroup(ctx context.Context, id string) (Result, error) {
	if !identifier.IsValid(id) {
		return badRequest(invalidUUIDMessage), nil
	}

	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(groupNotFoundMessage), nil
		}
		return Result{}, persistenceError("deleteGroup", err)
	}

	if err := s.repo.Delete(ctx, group); err != nil {
		return Result{}, persistenceError("deleteGroup", err)
	}

	publish(ctx, s.events, s.log, EventGroupDeleted, map[string]any{"id": group.ID})
	return message(http.StatusNoContent, fmt.Sprintf("group with id %s was deleted", id)), nil
}
