package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/gotodo/todo-api/internal/models"
	"gorm.io/gorm"
)

func TestUserRepository_Create_DuplicateTranslated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	seedUser(t, db, "dupe")

	err := repo.Create(&models.User{
		Username:     "dupe",
		Email:        "unique@example.com",
		PasswordHash: "irrelevant",
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_FindByUsernameOrEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, db, "flexible")

	byUsername, err := repo.FindByUsernameOrEmail("flexible")
	require.NoError(t, err)
	require.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.FindByUsernameOrEmail("flexible@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByUsernameOrEmail("nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ExistsOther(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")

	// Keeping your own username is not a conflict
	exists, err := repo.ExistsOtherWithUsername("first", first.ID)
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = repo.ExistsOtherWithUsername("first", second.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsOtherWithEmail("second@example.com", first.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsOtherWithEmail("unclaimed@example.com", first.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestUserRepository_Delete_FreesUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := seedUser(t, db, "recycled")
	require.NoError(t, repo.Delete(user.ID))

	// Hard delete releases the unique username for reuse
	err := repo.Create(&models.User{
		Username:     "recycled",
		Email:        "recycled2@example.com",
		PasswordHash: "irrelevant",
	})
	require.NoError(t, err)
}
