package repositories_test

import (
	"context"
	"errors"
	"testing"

	"usergroups/internal/config"
	"usergroups/internal/database"
	"usergroups/internal/identifier"
	"usergroups/internal/models"
	"usergroups/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(config.DriverSQLite, ":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(setupDB(t))

	user := &models.User{Login: "ab1", Password: "Aa1", Age: 30}
	require.NoError(t, repo.Create(ctx, user))
	assert.True(t, identifier.IsValid(user.ID))

	other := &models.User{ID: identifier.New(), Login: "cd2", Password: "Cc2", Age: 40, IsDeleted: true}
	require.NoError(t, repo.Create(ctx, other))

	dup := &models.User{Login: "ab1", Password: "Aa1", Age: 30}
	assert.Error(t, repo.Create(ctx, dup), "login must be unique")

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, *user, *found)

	_, err = repo.GetByID(ctx, identifier.New())
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	byIDs, err := repo.GetByIDs(ctx, []string{user.ID, identifier.New(), other.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	empty, err := repo.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	found.Age = 99
	found.IsDeleted = true
	require.NoError(t, repo.Update(ctx, found))
	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, reloaded.Age)
	assert.True(t, reloaded.IsDeleted)

	require.NoError(t, repo.Delete(ctx, reloaded))
	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, reloaded), repositories.ErrNotFound)
}

func TestGORMGroupRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMGroupRepository(setupDB(t))

	group := &models.Group{
		Name:        "admins",
		Permissions: []models.Permission{models.PermissionRead, models.PermissionWrite, models.PermissionRead},
	}
	require.NoError(t, repo.Create(ctx, group))
	assert.True(t, identifier.IsValid(group.ID))

	found, err := repo.GetByID(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "admins", found.Name)
	assert.Equal(t, []models.Permission{models.PermissionRead, models.PermissionWrite, models.PermissionRead}, []models.Permission(found.Permissions))

	found.Name = "owners"
	found.Permissions = []models.Permission{}
	require.NoError(t, repo.Update(ctx, found))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "owners", all[0].Name)
	assert.Empty(t, all[0].Permissions)

	require.NoError(t, repo.Delete(ctx, found))
	_, err = repo.GetByID(ctx, group.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserGroupRepository_Transaction(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserGroupRepository(setupDB(t))
	groupID := identifier.New()

	err := repo.RunInTransaction(ctx, func(tx repositories.UserGroupRepository) error {
		for _, userID := range []string{identifier.New(), identifier.New()} {
			if err := tx.Create(ctx, &models.UserGroup{UserID: userID, GroupID: groupID}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	boom := errors.New("boom")
	err = repo.RunInTransaction(ctx, func(tx repositories.UserGroupRepository) error {
		if err := tx.Create(ctx, &models.UserGroup{UserID: identifier.New(), GroupID: groupID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "rolled back insert must not be visible")
}

func TestGORMUserGroupRepository_AllowsRepeatedEdges(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserGroupRepository(setupDB(t))
	edge := models.UserGroup{UserID: identifier.New(), GroupID: identifier.New()}

	require.NoError(t, repo.Create(ctx, &edge))
	again := edge
	require.NoError(t, repo.Create(ctx, &again))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
