// Package schedule keeps the per-profile weekly schedule in order: each
// (profile, weekday) bucket is a list of entries sorted by slot order.
package schedule

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
)

// Repository is the persistence the engine needs. *store.Store satisfies it.
type Repository interface {
	GetScheduleEntry(id int64) (*models.ScheduleEntry, error)
	ListScheduleEntries(profileID int64) ([]*models.ScheduleEntry, error)
	ScheduleEntryExists(profileID, trackedTitleID int64, weekday int) (bool, error)
	MaxSlotOrder(profileID int64, weekday int) (int, bool, error)
	CreateScheduleEntry(e *models.ScheduleEntry) error
	UpdateScheduleEntryPlacement(id int64, weekday, slotOrder int) error
	UpdateScheduleEntryEnabled(id int64, enabled bool) error
	DeleteScheduleEntry(id int64) error
	ProfileOwnsTitle(profileID, trackedTitleID int64) (bool, error)
}

// Engine applies schedule mutations. It holds no locks: concurrent writes to
// the same bucket resolve as last write wins.
type Engine struct {
	repo Repository
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

func validWeekday(d int) bool {
	return d >= 0 && d < models.DaysPerWeek
}

// nextSlot returns max+1 for the bucket, or 0 when it is empty.
func (e *Engine) nextSlot(profileID int64, weekday int) (int, error) {
	highest, ok, err := e.repo.MaxSlotOrder(profileID, weekday)
	if err != nil || !ok {
		return 0, err
	}
	return highest + 1, nil
}

// AddEntry appends a title to the end of a weekday for a profile.
func (e *Engine) AddEntry(profileID, trackedTitleID int64, weekday int) (*models.ScheduleEntry, error) {
	const op = "schedule.AddEntry"
	if !validWeekday(weekday) {
		return nil, apperr.Invalid(op, "weekday must be between 0 and 6, got %d", weekday)
	}
	owned, err := e.repo.ProfileOwnsTitle(profileID, trackedTitleID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, apperr.NotFoundf(op, "title %d not found", trackedTitleID)
	}
	exists, err := e.repo.ScheduleEntryExists(profileID, trackedTitleID, weekday)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Duplicate(op, "title is already scheduled on %s", time.Weekday(weekday))
	}

	slot, err := e.nextSlot(profileID, weekday)
	if err != nil {
		return nil, err
	}
	entry := &models.ScheduleEntry{
		ProfileID:      profileID,
		TrackedTitleID: trackedTitleID,
		Weekday:        weekday,
		SlotOrder:      slot,
		Enabled:        true,
	}
	if err := e.repo.CreateScheduleEntry(entry); err != nil {
		return nil, err
	}
	log.Debug().Int64("entry_id", entry.ID).Int("weekday", weekday).Int("slot", slot).Msg("Schedule entry added")
	return entry, nil
}

// RemoveEntry deletes an entry. The rest of the bucket is not renumbered.
func (e *Engine) RemoveEntry(entryID int64) error {
	return e.repo.DeleteScheduleEntry(entryID)
}

// Entry returns a single entry.
func (e *Engine) Entry(entryID int64) (*models.ScheduleEntry, error) {
	return e.repo.GetScheduleEntry(entryID)
}

// ReorderSlot assigns slotOrder to the entry as is. Nothing else in the
// bucket moves; an equal slot order is broken by entry id when listing.
func (e *Engine) ReorderSlot(entryID int64, slotOrder int) (*models.ScheduleEntry, error) {
	if slotOrder < 0 {
		return nil, apperr.Invalid("schedule.ReorderSlot", "slot order must not be negative, got %d", slotOrder)
	}
	entry, err := e.repo.GetScheduleEntry(entryID)
	if err != nil {
		return nil, err
	}
	if entry.SlotOrder == slotOrder {
		return entry, nil
	}
	if err := e.repo.UpdateScheduleEntryPlacement(entryID, entry.Weekday, slotOrder); err != nil {
		return nil, err
	}
	entry.SlotOrder = slotOrder
	return entry, nil
}

// MoveToDay puts the entry at the end of another weekday. Moving to the
// weekday it is already on changes nothing.
func (e *Engine) MoveToDay(entryID int64, weekday int) (*models.ScheduleEntry, error) {
	const op = "schedule.MoveToDay"
	if !validWeekday(weekday) {
		return nil, apperr.Invalid(op, "weekday must be between 0 and 6, got %d", weekday)
	}
	entry, err := e.repo.GetScheduleEntry(entryID)
	if err != nil {
		return nil, err
	}
	if entry.Weekday == weekday {
		return entry, nil
	}
	exists, err := e.repo.ScheduleEntryExists(entry.ProfileID, entry.TrackedTitleID, weekday)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Duplicate(op, "title is already scheduled on %s", time.Weekday(weekday))
	}

	slot, err := e.nextSlot(entry.ProfileID, weekday)
	if err != nil {
		return nil, err
	}
	if err := e.repo.UpdateScheduleEntryPlacement(entryID, weekday, slot); err != nil {
		return nil, err
	}
	entry.Weekday = weekday
	entry.SlotOrder = slot
	return entry, nil
}

// SetEnabled flips the soft toggle. Ordering is untouched.
func (e *Engine) SetEnabled(entryID int64, enabled bool) (*models.ScheduleEntry, error) {
	entry, err := e.repo.GetScheduleEntry(entryID)
	if err != nil {
		return nil, err
	}
	if entry.Enabled == enabled {
		return entry, nil
	}
	if err := e.repo.UpdateScheduleEntryEnabled(entryID, enabled); err != nil {
		return nil, err
	}
	entry.Enabled = enabled
	return entry, nil
}

// WeekSchedule returns the seven buckets of a profile, each sorted by slot
// order with entry id as tie-break.
func (e *Engine) WeekSchedule(profileID int64) (models.WeekSchedule, error) {
	var week models.WeekSchedule
	entries, err := e.repo.ListScheduleEntries(profileID)
	if err != nil {
		return week, err
	}
	return Bucket(entries), nil
}

// Bucket groups entries by weekday and sorts each day.
func Bucket(entries []*models.ScheduleEntry) models.WeekSchedule {
	var week models.WeekSchedule
	for _, entry := range entries {
		if !validWeekday(entry.Weekday) {
			log.Warn().Int64("entry_id", entry.ID).Int("weekday", entry.Weekday).Msg("Skipping entry with invalid weekday")
			continue
		}
		week[entry.Weekday] = append(week[entry.Weekday], entry)
	}
	for d := range week {
		SortDay(week[d])
	}
	return week
}

// SortDay orders one bucket by (slot order, id).
func SortDay(day []*models.ScheduleEntry) {
	sort.SliceStable(day, func(i, j int) bool {
		if day[i].SlotOrder != day[j].SlotOrder {
			return day[i].SlotOrder < day[j].SlotOrder
		}
		return day[i].ID < day[j].ID
	})
}
