package store

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

// SessionTTL is how long a login session stays valid.
const SessionTTL = 7 * 24 * time.Hour

const userColumns = "id, household_id, username, password_hash, role, created_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.HouseholdID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt)
	return &user, err
}

// ListUsers retrieves the users of a household, ordered by username.
func (s *Store) ListUsers(householdID int64) ([]*models.User, error) {
	rows, err := s.db.Query("SELECT "+userColumns+" FROM users WHERE household_id = ? ORDER BY username ASC", householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// CreateUser adds a new user to a household.
func (s *Store) CreateUser(householdID int64, username, passwordHash, role string) (*models.User, error) {
	now := time.Now()
	query := "INSERT INTO users (household_id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)"
	res, err := s.db.Exec(query, householdID, username, passwordHash, role, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Duplicate("store.CreateUser", "username %q is taken", username)
		}
		return nil, err
	}
	id, _ := res.LastInsertId()
	return &models.User{
		ID:          id,
		HouseholdID: householdID,
		Username:    username,
		Role:        role,
		CreatedAt:   now,
	}, nil
}

// UpdateUser updates a user's username and role.
func (s *Store) UpdateUser(id int64, username, role string) error {
	res, err := s.db.Exec("UPDATE users SET username = ?, role = ? WHERE id = ?", username, role, id)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Duplicate("store.UpdateUser", "username %q is taken", username)
		}
		return err
	}
	return expectAffected(res, "store.UpdateUser", "user %d not found", id)
}

// UpdateUserPassword updates only the user's password hash.
func (s *Store) UpdateUserPassword(id int64, passwordHash string) error {
	_, err := s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", passwordHash, id)
	return err
}

// DeleteUser removes a user. Cascading deletes handle their sessions.
func (s *Store) DeleteUser(id int64) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "store.DeleteUser", "user %d not found", id)
}

// GetUserByUsername retrieves a user by their unique username.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetUserByUsername", "user %q not found", username)
	}
	return user, nil
}

// GetUserByID retrieves a user by their primary key.
func (s *Store) GetUserByID(id int64) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetUserByID", "user %d not found", id)
	}
	return user, nil
}

// GetUserFromSession retrieves a user based on a session token.
func (s *Store) GetUserFromSession(token string) (*models.User, error) {
	var userID int64
	var expiry time.Time
	err := s.db.QueryRow("SELECT user_id, expiry FROM sessions WHERE token = ?", token).Scan(&userID, &expiry)
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetUserFromSession", "invalid session token")
	}

	if time.Now().After(expiry) {
		s.DeleteSession(token)
		return nil, apperr.NotFoundf("store.GetUserFromSession", "session expired")
	}

	return s.GetUserByID(userID)
}

// CountUsers returns the total number of users in the database.
func (s *Store) CountUsers() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// CreateSession creates a new session for a user and returns the session token.
func (s *Store) CreateSession(userID int64) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)
	expiry := time.Now().Add(SessionTTL)
	_, err := s.db.Exec("INSERT INTO sessions (token, user_id, expiry) VALUES (?, ?, ?)", token, userID, expiry)
	return token, err
}

// DeleteSession removes a session from the database (used for logout).
func (s *Store) DeleteSession(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpiredSessions purges every session whose expiry is before now and
// returns how many were removed.
func (s *Store) DeleteExpiredSessions(now time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expiry < ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
