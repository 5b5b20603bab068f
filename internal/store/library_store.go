package store

import (
	"sort"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/util"
)

const titleColumns = "id, household_id, tmdb_id, media_type, title, poster_path, added_at"

func scanTitle(row interface{ Scan(...any) error }) (*models.TrackedTitle, error) {
	var t models.TrackedTitle
	err := row.Scan(&t.ID, &t.HouseholdID, &t.TMDBID, &t.MediaType, &t.Title, &t.PosterPath, &t.AddedAt)
	return &t, err
}

// CreateTrackedTitle adds a TMDB item to a household library.
func (s *Store) CreateTrackedTitle(t *models.TrackedTitle) (*models.TrackedTitle, error) {
	if !t.MediaType.Valid() {
		return nil, apperr.Invalid("store.CreateTrackedTitle", "unknown media type %q", t.MediaType)
	}
	if t.TMDBID <= 0 {
		return nil, apperr.Invalid("store.CreateTrackedTitle", "tmdb id must be positive")
	}
	t.AddedAt = time.Now()
	res, err := s.db.Exec(`
		INSERT INTO tracked_titles (household_id, tmdb_id, media_type, title, poster_path, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.HouseholdID, t.TMDBID, t.MediaType, t.Title, t.PosterPath, t.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Duplicate("store.CreateTrackedTitle", "%s %d is already in the library", t.MediaType, t.TMDBID)
		}
		return nil, err
	}
	t.ID, _ = res.LastInsertId()
	return t, nil
}

// GetTrackedTitle retrieves a library entry by id.
func (s *Store) GetTrackedTitle(id int64) (*models.TrackedTitle, error) {
	t, err := scanTitle(s.db.QueryRow("SELECT "+titleColumns+" FROM tracked_titles WHERE id = ?", id))
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetTrackedTitle", "title %d not found", id)
	}
	return t, nil
}

// ListTrackedTitles returns a household library in natural title order.
func (s *Store) ListTrackedTitles(householdID int64) ([]*models.TrackedTitle, error) {
	rows, err := s.db.Query("SELECT "+titleColumns+" FROM tracked_titles WHERE household_id = ?", householdID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := []*models.TrackedTitle{}
	for rows.Next() {
		t, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(titles, func(i, j int) bool {
		return util.TitleSortLess(titles[i].Title, titles[j].Title)
	})
	return titles, nil
}

// DeleteTrackedTitle removes a title from the library. Its schedule entries
// and progress cursors go with it.
func (s *Store) DeleteTrackedTitle(id int64) error {
	res, err := s.db.Exec("DELETE FROM tracked_titles WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "store.DeleteTrackedTitle", "title %d not found", id)
}
