package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vrsandeep/showtime-go/internal/models"
)

const minutesPerDay = 24 * 60

// Slot is the position of one entry on a day's timeline, in minutes from the
// start of the viewing evening.
type Slot struct {
	Entry            *models.ScheduleEntry
	StartMinute      int
	EndMinute        int
	RuntimeMinutes   int
	RuntimeEstimated bool
}

// BuildTimeline lays a sorted day out back to back. runtimes is keyed by
// tracked title id; a missing or non-positive runtime uses fallback and marks
// the slot as estimated. Disabled entries are left off the timeline.
func BuildTimeline(day []*models.ScheduleEntry, runtimes map[int64]int, fallback int) []Slot {
	if fallback < 0 {
		fallback = 0
	}
	slots := make([]Slot, 0, len(day))
	start := 0
	for _, entry := range day {
		if !entry.Enabled {
			continue
		}
		runtime, ok := runtimes[entry.TrackedTitleID]
		estimated := !ok || runtime <= 0
		if estimated {
			runtime = fallback
		}
		slots = append(slots, Slot{
			Entry:            entry,
			StartMinute:      start,
			EndMinute:        start + runtime,
			RuntimeMinutes:   runtime,
			RuntimeEstimated: estimated,
		})
		start += runtime
	}
	return slots
}

// ParseClock reads an "HH:MM" wall clock time into minutes after midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// ClockLabel renders dayStart+offset minutes as "HH:MM", wrapping past midnight.
func ClockLabel(dayStart, offset int) string {
	t := ((dayStart+offset)%minutesPerDay + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", t/60, t%60)
}
