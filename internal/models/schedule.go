package models

import "time"

// DaysPerWeek is the number of weekday buckets; weekday 0 is Sunday.
const DaysPerWeek = 7

// ScheduleEntry places a tracked title on a weekday for a profile.
type ScheduleEntry struct {
	ID             int64     `json:"id"`
	ProfileID      int64     `json:"profile_id"`
	TrackedTitleID int64     `json:"tracked_title_id"`
	Weekday        int       `json:"weekday"`
	SlotOrder      int       `json:"slot_order"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WeekSchedule holds the ordered entries of each weekday, indexed by weekday.
type WeekSchedule [DaysPerWeek][]*ScheduleEntry

// DaySchedule is the JSON shape of one weekday bucket.
type DaySchedule struct {
	Weekday int              `json:"weekday"`
	Name    string           `json:"name"`
	Entries []*ScheduleEntry `json:"entries"`
}

// Days flattens the week into seven named buckets, Sunday first.
func (w WeekSchedule) Days() []DaySchedule {
	days := make([]DaySchedule, 0, DaysPerWeek)
	for d := 0; d < DaysPerWeek; d++ {
		entries := w[d]
		if entries == nil {
			entries = []*ScheduleEntry{}
		}
		days = append(days, DaySchedule{
			Weekday: d,
			Name:    time.Weekday(d).String(),
			Entries: entries,
		})
	}
	return days
}
