package store

import (
	"database/sql"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

const entryColumns = "id, profile_id, tracked_title_id, weekday, slot_order, enabled, created_at, updated_at"

func scanEntry(row interface{ Scan(...any) error }) (*models.ScheduleEntry, error) {
	var e models.ScheduleEntry
	err := row.Scan(&e.ID, &e.ProfileID, &e.TrackedTitleID, &e.Weekday, &e.SlotOrder, &e.Enabled, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

// GetScheduleEntry retrieves a schedule entry by id.
func (s *Store) GetScheduleEntry(id int64) (*models.ScheduleEntry, error) {
	e, err := scanEntry(s.db.QueryRow("SELECT "+entryColumns+" FROM schedule_entries WHERE id = ?", id))
	if err != nil {
		return nil, notFoundIfNoRows(err, "store.GetScheduleEntry", "schedule entry %d not found", id)
	}
	return e, nil
}

// ListScheduleEntries returns every entry of a profile ordered by weekday,
// slot order and id.
func (s *Store) ListScheduleEntries(profileID int64) ([]*models.ScheduleEntry, error) {
	rows, err := s.db.Query(
		"SELECT "+entryColumns+" FROM schedule_entries WHERE profile_id = ? ORDER BY weekday ASC, slot_order ASC, id ASC",
		profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.ScheduleEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ScheduleEntryExists reports whether the title is already scheduled on the
// weekday for the profile.
func (s *Store) ScheduleEntryExists(profileID, trackedTitleID int64, weekday int) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM schedule_entries WHERE profile_id = ? AND tracked_title_id = ? AND weekday = ?",
		profileID, trackedTitleID, weekday).Scan(&count)
	return count > 0, err
}

// MaxSlotOrder returns the highest slot order in a (profile, weekday) bucket.
// ok is false when the bucket is empty.
func (s *Store) MaxSlotOrder(profileID int64, weekday int) (highest int, ok bool, err error) {
	var v sql.NullInt64
	err = s.db.QueryRow(
		"SELECT MAX(slot_order) FROM schedule_entries WHERE profile_id = ? AND weekday = ?",
		profileID, weekday).Scan(&v)
	if err != nil || !v.Valid {
		return 0, false, err
	}
	return int(v.Int64), true, nil
}

// CreateScheduleEntry inserts e and fills in its id and timestamps.
func (s *Store) CreateScheduleEntry(e *models.ScheduleEntry) error {
	now := time.Now()
	res, err := s.db.Exec(`
		INSERT INTO schedule_entries (profile_id, tracked_title_id, weekday, slot_order, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ProfileID, e.TrackedTitleID, e.Weekday, e.SlotOrder, e.Enabled, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Duplicate("store.CreateScheduleEntry", "title %d is already scheduled on %s", e.TrackedTitleID, time.Weekday(e.Weekday))
		}
		return err
	}
	e.ID, _ = res.LastInsertId()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// UpdateScheduleEntryPlacement sets the weekday and slot order of an entry.
func (s *Store) UpdateScheduleEntryPlacement(id int64, weekday, slotOrder int) error {
	res, err := s.db.Exec(
		"UPDATE schedule_entries SET weekday = ?, slot_order = ?, updated_at = ? WHERE id = ?",
		weekday, slotOrder, time.Now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Duplicate("store.UpdateScheduleEntryPlacement", "title is already scheduled on %s", time.Weekday(weekday))
		}
		return err
	}
	return expectAffected(res, "store.UpdateScheduleEntryPlacement", "schedule entry %d not found", id)
}

// UpdateScheduleEntryEnabled flips the soft toggle of an entry.
func (s *Store) UpdateScheduleEntryEnabled(id int64, enabled bool) error {
	res, err := s.db.Exec(
		"UPDATE schedule_entries SET enabled = ?, updated_at = ? WHERE id = ?",
		enabled, time.Now(), id)
	if err != nil {
		return err
	}
	return expectAffected(res, "store.UpdateScheduleEntryEnabled", "schedule entry %d not found", id)
}

// DeleteScheduleEntry removes an entry. Remaining slot orders are left as they are.
func (s *Store) DeleteScheduleEntry(id int64) error {
	res, err := s.db.Exec("DELETE FROM schedule_entries WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectAffected(res, "store.DeleteScheduleEntry", "schedule entry %d not found", id)
}
