package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"usergroups/internal/identifier"
	"usergroups/internal/models"
	"usergroups/internal/repositories"
	"usergroups/internal/validation"

	"github.com/rs/zerolog"
)

const userNotFoundMessage = "user with given uuid was not found"

// UserService handles business logic related to users.
type UserService struct {
	repo      repositories.UserRepository
	rules     *validation.Rules
	passwords PasswordHasher
	events    EventPublisher
	log       zerolog.Logger
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(repo repositories.UserRepository, rules *validation.Rules, passwords PasswordHasher, events EventPublisher, log zerolog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		rules:     rules,
		passwords: passwords,
		events:    events,
		log:       log,
	}
}

// ListUsers returns every user, soft-deleted ones included.
func (s *UserService) ListUsers(ctx context.Context) (Result, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return Result{}, persistenceError("listUsers", err)
	}
	return ok("users", nonNil(users)), nil
}

// GetUser returns one user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (Result, error) {
	if !identifier.IsValid(id) {
		return badRequest(invalidUUIDMessage), nil
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(userNotFoundMessage), nil
		}
		return Result{}, persistenceError("getUser", err)
	}
	return ok("user", user), nil
}

// CreateUser validates body and stores a new user under a server-generated id.
func (s *UserService) CreateUser(ctx context.Context, body []byte) (Result, error) {
	in, err := s.rules.CreateUser(body)
	if err != nil {
		return badRequest(err.Error()), nil
	}

	password, err := s.passwords.Hash(in.Password)
	if err != nil {
		return Result{}, err
	}

	user := &models.User{
		ID:        identifier.New(),
		Login:     in.Login,
		Password:  password,
		Age:       in.Age,
		IsDeleted: in.IsDeleted,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return Result{}, persistenceError("createUser", err)
	}

	publish(ctx, s.events, s.log, EventUserCreated, map[string]any{"id": user.ID, "login": user.Login})
	return created("newUser", user), nil
}

// UpdateUser replaces login, password, age and isDeleted of an existing user
// with the values from body. Fields are never merged: the body must carry all
// four. Checks run in order: body, id, existence.
func (s *UserService) UpdateUser(ctx context.Context, id string, body []byte) (Result, error) {
	in, err := s.rules.UpdateUser(body)
	if err != nil {
		return badRequest(err.Error()), nil
	}
	if !identifier.IsValid(id) {
		return badRequest(invalidUUIDMessage), nil
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(userNotFoundMessage), nil
		}
		return Result{}, persistenceError("updateUser", err)
	}

	password, err := s.passwords.Hash(in.Password)
	if err != nil {
		return Result{}, err
	}

	user.Login = in.Login
	user.Password = password
	user.Age = in.Age
	user.IsDeleted = in.IsDeleted

	if err := s.repo.Update(ctx, user); err != nil {
		return Result{}, persistenceError("updateUser", err)
	}

	publish(ctx, s.events, s.log, EventUserUpdated, map[string]any{"id": user.ID, "login": user.Login})
	return ok("updatedUser", user), nil
}

// DeleteUser soft-deletes a user. Deleting an already deleted user succeeds
// without writing.
func (s *UserService) DeleteUser(ctx context.Context, id string) (Result, error) {
	if !identifier.IsValid(id) {
		return badRequest(invalidUUIDMessage), nil
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(userNotFoundMessage), nil
		}
		return Result{}, persistenceError("deleteUser", err)
	}

	if user.IsDeleted {
		return message(http.StatusNoContent, fmt.Sprintf("User with id %s already was marked as deleted", id)), nil
	}

	user.IsDeleted = true
	if err := s.repo.Update(ctx, user); err != nil {
		return Result{}, persistenceError("deleteUser", err)
	}

	publish(ctx, s.events, s.log, EventUserDeleted, map[string]any{"id": user.ID})
	return message(http.StatusNoContent, fmt.Sprintf("User with id %s was marked as deleted", id)), nil
}

// AutoSuggestUsers returns every user whose login contains loginSubstring
// (case-sensitive), ordered by login ascending. limit is accepted for API
// compatibility and is not applied to the result.
func (s *UserService) AutoSuggestUsers(ctx context.Context, loginSubstring string, limit int) (Result, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return Result{}, persistenceError("autoSuggestUsers", err)
	}

	matches := make([]models.User, 0, len(users))
	for _, user := range users {
		if strings.Contains(user.Login, loginSubstring) {
			matches = append(matches, user)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Login < matches[j].Login
	})

	s.log.Debug().Str("loginSubstring", loginSubstring).Int("limit", limit).Int("matches", len(matches)).Msg("auto-suggest users")
	return ok("sortedFilteredUsers", matches), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
