package store

import (
	"strings"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

// CreateHousehold adds a new household.
func (s *Store) CreateHousehold(name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("store.CreateHousehold", "household name cannot be empty")
	}
	now := time.Now()
	res, err := s.db.Exec("INSERT INTO households (name, created_at) VALUES (?, ?)", name, now)
	if err != nil {
		return nil, err
	}
	id, _ := res.LastInsertId()
	return &models.Household{ID: id, Name: name, CreatedAt: now}, nil
}

// GetHouseholdByID retrieves a household by its primary key.
func (s *Store) GetHouseholdByID(id int64) (*models.Household, error) {
	var h models.Household
	err := s.db.QueryRow("SELECT id, name, created_at FROM households WHERE id = ?", id).
		Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetHouseholdByID", "household %d not found", id)
	}
	return &h, nil
}

// GetHouseholdByName returns the first household with the given name.
func (s *Store) GetHouseholdByName(name string) (*models.Household, error) {
	var h models.Household
	err := s.db.QueryRow("SELECT id, name, created_at FROM households WHERE name = ? ORDER BY id LIMIT 1", name).
		Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetHouseholdByName", "household %q not found", name)
	}
	return &h, nil
}

// DeleteHousehold removes a household. Cascading deletes remove its users,
// profiles, library, schedules and progress.
func (s *Store) DeleteHousehold(id int64) error {
	res, err := s.db.Exec("DELETE FROM households WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "store.DeleteHousehold", "household %d not found", id)
}

// CreateProfile adds a viewer profile to a household.
func (s *Store) CreateProfile(householdID int64, name string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("store.CreateProfile", "profile name cannot be empty")
	}
	now := time.Now()
	res, err := s.db.Exec("INSERT INTO profiles (household_id, name, created_at) VALUES (?, ?, ?)", householdID, name, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Duplicate("store.CreateProfile", "profile %q already exists", name)
		}
		return nil, err
	}
	id, _ := res.LastInsertId()
	return &models.Profile{ID: id, HouseholdID: householdID, Name: name, CreatedAt: now}, nil
}

// ListProfiles returns the profiles of a household, ordered by name.
func (s *Store) ListProfiles(householdID int64) ([]*models.Profile, error) {
	rows, err := s.db.Query(
		"SELECT id, household_id, name, created_at FROM profiles WHERE household_id = ? ORDER BY name ASC, id ASC",
		householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []*models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, &p)
	}
	return profiles, rows.Err()
}

// GetProfileByID retrieves a profile by its primary key.
func (s *Store) GetProfileByID(id int64) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRow("SELECT id, household_id, name, created_at FROM profiles WHERE id = ?", id).
		Scan(&p.ID, &p.HouseholdID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetProfileByID", "profile %d not found", id)
	}
	return &p, nil
}

// DeleteProfile removes a profile with its schedule and progress.
func (s *Store) DeleteProfile(id int64) error {
	res, err := s.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "store.DeleteProfile", "profile %d not found", id)
}

// ProfileOwnsTitle reports whether the tracked title belongs to the
// household of the profile.
func (s *Store) ProfileOwnsTitle(profileID, trackedTitleID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM profiles p
		JOIN tracked_titles t ON t.household_id = p.household_id
		WHERE p.id = ? AND t.id = ?
	`, profileID, trackedTitleID).Scan(&count)
	return count > 0, err
}
