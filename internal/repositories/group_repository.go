package repositories

import (
	"context"

	"usergroups/internal/models"
)

// GroupRepository defines the interface for group data access.
type GroupRepository interface {
	GetAll(ctx context.Context) ([]models.Group, error)
	GetByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, group *models.Group) error
}
