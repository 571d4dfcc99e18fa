package services

import (
	"context"
	"errors"

	"usergroups/internal/identifier"
	"usergroups/internal/models"
	"usergroups/internal/repositories"
	"usergroups/internal/validation"

	"github.com/rs/zerolog"
)

// MembershipService manages the user-group join rows.
type MembershipService struct {
	userGroupRepo repositories.UserGroupRepository
	groupRepo     repositories.GroupRepository
	userRepo      repositories.UserRepository
	rules         *validation.Rules
	events        EventPublisher
	log           zerolog.Logger
}

// NewMembershipService creates a new MembershipService. events may be nil.
func NewMembershipService(
	userGroupRepo repositories.UserGroupRepository,
	groupRepo repositories.GroupRepository,
	userRepo repositories.UserRepository,
	rules *validation.Rules,
	events EventPublisher,
	log zerolog.Logger,
) *MembershipService {
	return &MembershipService{
		userGroupRepo: userGroupRepo,
		groupRepo:     groupRepo,
		userRepo:      userRepo,
		rules:         rules,
		events:        events,
		log:           log,
	}
}

// ListMemberships returns every membership row.
func (s *MembershipService) ListMemberships(ctx context.Context) (Result, error) {
	userGroups, err := s.userGroupRepo.GetAll(ctx)
	if err != nil {
		return Result{}, persistenceError("listMemberships", err)
	}
	return ok("userGroups", nonNil(userGroups)), nil
}

// AddUsersToGroup attaches every user listed in body's userIds to the group.
// The group and all users must exist before anything is written, and the rows
// are inserted in a single transaction: either every edge is stored or none.
// Users already in the group get another edge.
func (s *MembershipService) AddUsersToGroup(ctx context.Context, groupID string, body []byte) (Result, error) {
	if !identifier.IsValid(groupID) {
		return badRequest("groupId is invalid"), nil
	}

	userIDs, err := s.rules.UserIDs(body)
	if err != nil {
		return badRequest(err.Error()), nil
	}
	if !identifier.AllValid(userIDs) {
		return badRequest("some userIds is invalid"), nil
	}

	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(groupNotFoundMessage), nil
		}
		return Result{}, persistenceError("addUsersToGroup", err)
	}

	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return Result{}, persistenceError("addUsersToGroup", err)
	}
	// A repeated id in the request matches one row, so it also fails here.
	if len(users) != len(userIDs) {
		return notFound("some users with given uuid were not found"), nil
	}

	records := make([]models.UserGroup, 0, len(userIDs))
	err = s.userGroupRepo.RunInTransaction(ctx, func(tx repositories.UserGroupRepository) error {
		for _, userID := range userIDs {
			record := models.UserGroup{UserID: userID, GroupID: groupID}
			if err := tx.Create(ctx, &record); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return Result{}, persistenceError("addUsersToGroup", err)
	}

	publish(ctx, s.events, s.log, EventUserGroupsAdded, map[string]any{"groupId": groupID, "userIds": userIDs})
	return ok("newUserGroupsRecords", records), nil
}
