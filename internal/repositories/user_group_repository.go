package repositories

import (
	"context"

	"usergroups/internal/models"
)

// UserGroupRepository defines the interface for membership data access.
type UserGroupRepository interface {
	GetAll(ctx context.Context) ([]models.UserGroup, error)
	Create(ctx context.Context, userGroup *models.UserGroup) error
	// RunInTransaction calls fn with a repository bound to a single
	// transaction. Every write made through it commits together, or none does
	// if fn returns an error.
	RunInTransaction(ctx context.Context, fn func(tx UserGroupRepository) error) error
}
