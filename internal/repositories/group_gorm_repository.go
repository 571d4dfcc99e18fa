package repositories

import (
	"context"
	"errors"
	"fmt"

	"usergroups/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMGroupRepository is a GORM implementation of GroupRepository.
type GORMGroupRepository struct {
	db *gorm.DB
}

// NewGORMGroupRepository creates a new instance of GORMGroupRepository.
func NewGORMGroupRepository(db *gorm.DB) *GORMGroupRepository {
	return &GORMGroupRepository{
		db: db,
	}
}

// GetAll retrieves all groups from the database.
func (r *GORMGroupRepository) GetAll(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("failed to get all groups: %w", err)
	}
	return groups, nil
}

// GetByID retrieves a single group by its ID from the database.
func (r *GORMGroupRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get group by ID %s: %w", id, err)
	}
	return &group, nil
}

// Create creates a new group in the database.
func (r *GORMGroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(group).Error; err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// Update writes every column of group back to its row.
func (r *GORMGroupRepository) Update(ctx context.Context, group *models.Group) error {
	if err := r.db.WithContext(ctx).Save(group).Error; err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return nil
}

// Delete removes the group's row. Membership rows pointing at it are left alone.
func (r *GORMGroupRepository) Delete(ctx context.Context, group *models.Group) error {
	res := r.db.WithContext(ctx).Delete(&models.Group{}, "id = ?", group.ID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("group with ID %s: %w", group.ID, ErrNotFound)
	}
	return nil
}
