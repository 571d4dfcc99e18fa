package repositories

import (
	"context"
	"fmt"

	"usergroups/internal/models"

	"gorm.io/gorm"
)

// GORMUserGroupRepository is a GORM implementation of UserGroupRepository.
type GORMUserGroupRepository struct {
	db *gorm.DB
}

// NewGORMUserGroupRepository creates a new instance of GORMUserGroupRepository.
func NewGORMUserGroupRepository(db *gorm.DB) *GORMUserGroupRepository {
	return &GORMUserGroupRepository{
		db: db,
	}
}

// GetAll retrieves every membership row.
func (r *GORMUserGroupRepository) GetAll(ctx context.Context) ([]models.UserGroup, error) {
	var userGroups []models.UserGroup
	if err := r.db.WithContext(ctx).Find(&userGroups).Error; err != nil {
		return nil, fmt.Errorf("failed to get all user groups: %w", err)
	}
	return userGroups, nil
}

// Create inserts one membership row.
func (r *GORMUserGroupRepository) Create(ctx context.Context, userGroup *models.UserGroup) error {
	if err := r.db.WithContext(ctx).Create(userGroup).Error; err != nil {
		return fmt.Errorf("failed to create user group: %w", err)
	}
	return nil
}

// RunInTransaction runs fn inside a database transaction.
func (r *GORMUserGroupRepository) RunInTransaction(ctx context.Context, fn func(tx UserGroupRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMUserGroupRepository(tx))
	})
}
