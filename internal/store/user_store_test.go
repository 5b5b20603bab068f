package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/auth"
	"github.com/vrsandeep/showtime-go/internal/store"
	"github.com/vrsandeep/showtime-go/internal/testutil"
)

func TestUserStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	home, _ := s.CreateHousehold("Home")

	passwordHash, _ := auth.HashPassword("password123")

	t.Run("Create User Success", func(t *testing.T) {
		user, err := s.CreateUser(home.ID, "testuser", passwordHash, "user")
		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
		assert.Equal(t, home.ID, user.HouseholdID)
	})

	t.Run("Create User with Duplicate Username", func(t *testing.T) {
		_, err := s.CreateUser(home.ID, "testuser", passwordHash, "user")
		assert.True(t, apperr.Is(err, apperr.DuplicateEntry), "got %v", err)
	})

	t.Run("Get User By Username", func(t *testing.T) {
		user, err := s.GetUserByUsername("testuser")
		require.NoError(t, err)
		assert.Equal(t, home.ID, user.HouseholdID)
		assert.True(t, auth.CheckPasswordHash("password123", user.PasswordHash), "password hash does not match")
	})

	t.Run("Get Non-existent User", func(t *testing.T) {
		_, err := s.GetUserByUsername("nonexistent")
		assert.True(t, apperr.Is(err, apperr.NotFound), "got %v", err)
	})
}

func TestUserStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	home, _ := s.CreateHousehold("Home")

	passwordHash, _ := auth.HashPassword("password123")
	user, _ := s.CreateUser(home.ID, "userToUpdate", passwordHash, "user")

	t.Run("Update User Info", func(t *testing.T) {
		require.NoError(t, s.UpdateUser(user.ID, "updatedUsername", "admin"))
		updatedUser, _ := s.GetUserByID(user.ID)
		assert.Equal(t, "updatedUsername", updatedUser.Username)
		assert.Equal(t, "admin", updatedUser.Role)
	})

	t.Run("Update Missing User", func(t *testing.T) {
		err := s.UpdateUser(9999, "ghost", "user")
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})

	t.Run("Update User Password", func(t *testing.T) {
		newPasswordHash, _ := auth.HashPassword("newpassword")
		require.NoError(t, s.UpdateUserPassword(user.ID, newPasswordHash))
		updatedUser, _ := s.GetUserByID(user.ID)
		assert.True(t, auth.CheckPasswordHash("newpassword", updatedUser.PasswordHash))
	})

	t.Run("Delete User", func(t *testing.T) {
		require.NoError(t, s.DeleteUser(user.ID))
		_, err := s.GetUserByID(user.ID)
		assert.True(t, apperr.Is(err, apperr.NotFound))
		assert.True(t, apperr.Is(s.DeleteUser(user.ID), apperr.NotFound))
	})
}

func TestUserStore_Sessions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	home, _ := s.CreateHousehold("Home")
	passwordHash, _ := auth.HashPassword("password123")
	user, _ := s.CreateUser(home.ID, "sessionuser", passwordHash, "user")

	t.Run("Create and Get Session", func(t *testing.T) {
		token, err := s.CreateSession(user.ID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		sessionUser, err := s.GetUserFromSession(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, sessionUser.ID)
	})

	t.Run("Get Expired Session", func(t *testing.T) {
		expiredToken := "expired-token"
		expiry := time.Now().Add(-1 * time.Hour)
		db.Exec("INSERT INTO sessions (token, user_id, expiry) VALUES (?, ?, ?)", expiredToken, user.ID, expiry)

		_, err := s.GetUserFromSession(expiredToken)
		require.Error(t, err)
		assert.Equal(t, "session expired", apperr.Message(err))
	})

	t.Run("Delete Session", func(t *testing.T) {
		token, _ := s.CreateSession(user.ID)
		require.NoError(t, s.DeleteSession(token))
		_, err := s.GetUserFromSession(token)
		assert.Error(t, err)
	})

	t.Run("Delete Expired Sessions", func(t *testing.T) {
		live, _ := s.CreateSession(user.ID)
		for _, token := range []string{"old-1", "old-2"} {
			db.Exec("INSERT INTO sessions (token, user_id, expiry) VALUES (?, ?, ?)", token, user.ID, time.Now().Add(-2*time.Hour))
		}

		removed, err := s.DeleteExpiredSessions(time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 2, removed)

		_, err = s.GetUserFromSession(live)
		assert.NoError(t, err, "live session must survive cleanup")
	})
}

func TestUserStore_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	home, _ := s.CreateHousehold("Home")
	cabin, _ := s.CreateHousehold("Cabin")

	count, err := s.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	passwordHash, _ := auth.HashPassword("password123")
	s.CreateUser(home.ID, "user2", passwordHash, "admin")
	s.CreateUser(home.ID, "user1", passwordHash, "user")
	s.CreateUser(cabin.ID, "guest", passwordHash, "user")

	users, err := s.ListUsers(home.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user1", users[0].Username)
	assert.Equal(t, "user2", users[1].Username)

	count, err = s.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
