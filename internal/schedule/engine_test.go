package schedule_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/schedule"
	"github.com/vrsandeep/showtime-go/internal/store"
	"github.com/vrsandeep/showtime-go/internal/testutil"
)

type fixture struct {
	store   *store.Store
	engine  *schedule.Engine
	profile int64
	titles  []*models.TrackedTitle
}

func setup(t *testing.T, titles int) fixture {
	t.Helper()
	s := store.New(testutil.SetupTestDB(t))
	fx := testutil.SeedHousehold(t, s, "Home", "Alice")
	f := fixture{store: s, engine: schedule.NewEngine(s), profile: fx.Profile.ID}
	for i := 0; i < titles; i++ {
		f.titles = append(f.titles, testutil.AddTitle(t, s, fx.Household.ID, int64(100+i), models.MediaTypeTV, "Show"))
	}
	return f
}

func ids(day []*models.ScheduleEntry) []int64 {
	out := []int64{}
	for _, e := range day {
		out = append(out, e.ID)
	}
	return out
}

func TestAddEntry(t *testing.T) {
	f := setup(t, 3)

	t.Run("First entry of a day gets slot 0", func(t *testing.T) {
		e, err := f.engine.AddEntry(f.profile, f.titles[0].ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 0, e.SlotOrder)
		assert.True(t, e.Enabled)
	})

	t.Run("Next entry is max plus one", func(t *testing.T) {
		e, err := f.engine.AddEntry(f.profile, f.titles[1].ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, e.SlotOrder)
	})

	t.Run("Duplicate on the same day", func(t *testing.T) {
		_, err := f.engine.AddEntry(f.profile, f.titles[0].ID, 2)
		assert.True(t, apperr.Is(err, apperr.DuplicateEntry), "got %v", err)
	})

	t.Run("Same title on another day", func(t *testing.T) {
		e, err := f.engine.AddEntry(f.profile, f.titles[0].ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 0, e.SlotOrder)
	})

	t.Run("Weekday out of range", func(t *testing.T) {
		for _, d := range []int{-1, 7, 42} {
			_, err := f.engine.AddEntry(f.profile, f.titles[2].ID, d)
			assert.True(t, apperr.Is(err, apperr.InvalidArgument), "weekday %d", d)
		}
	})

	t.Run("Unknown title", func(t *testing.T) {
		_, err := f.engine.AddEntry(f.profile, 9999, 1)
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})

	t.Run("Slot follows the max even after gaps", func(t *testing.T) {
		e, err := f.engine.AddEntry(f.profile, f.titles[2].ID, 4)
		require.NoError(t, err)
		_, err = f.engine.ReorderSlot(e.ID, 10)
		require.NoError(t, err)

		next, err := f.engine.AddEntry(f.profile, f.titles[0].ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 11, next.SlotOrder)
	})
}

func TestRemoveEntry(t *testing.T) {
	f := setup(t, 3)
	a, _ := f.engine.AddEntry(f.profile, f.titles[0].ID, 1)
	b, _ := f.engine.AddEntry(f.profile, f.titles[1].ID, 1)
	c, _ := f.engine.AddEntry(f.profile, f.titles[2].ID, 1)

	require.NoError(t, f.engine.RemoveEntry(b.ID))

	week, err := f.engine.WeekSchedule(f.profile)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, ids(week[1]))
	assert.Equal(t, 2, week[1][1].SlotOrder, "remaining slots are not renumbered")

	assert.True(t, apperr.Is(f.engine.RemoveEntry(b.ID), apperr.NotFound))
}

func TestReorderSlot(t *testing.T) {
	f := setup(t, 3)
	a, _ := f.engine.AddEntry(f.profile, f.titles[0].ID, 3)
	b, _ := f.engine.AddEntry(f.profile, f.titles[1].ID, 3)
	c, _ := f.engine.AddEntry(f.profile, f.titles[2].ID, 3)

	t.Run("Direct assignment", func(t *testing.T) {
		moved, err := f.engine.ReorderSlot(a.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, moved.SlotOrder)

		week, _ := f.engine.WeekSchedule(f.profile)
		assert.Equal(t, []int64{b.ID, c.ID, a.ID}, ids(week[3]))
		assert.Equal(t, 1, week[3][0].SlotOrder, "other entries keep their slots")
	})

	t.Run("Collision is broken by entry id", func(t *testing.T) {
		_, err := f.engine.ReorderSlot(a.ID, 2)
		require.NoError(t, err)

		week, _ := f.engine.WeekSchedule(f.profile)
		assert.Equal(t, []int64{b.ID, a.ID, c.ID}, ids(week[3]))
		assert.Equal(t, week[3][1].SlotOrder, week[3][2].SlotOrder)
	})

	t.Run("Negative slot", func(t *testing.T) {
		_, err := f.engine.ReorderSlot(a.ID, -1)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	})

	t.Run("Missing entry", func(t *testing.T) {
		_, err := f.engine.ReorderSlot(9999, 1)
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})
}

func TestMoveToDay(t *testing.T) {
	f := setup(t, 3)
	a, _ := f.engine.AddEntry(f.profile, f.titles[0].ID, 1)
	b, _ := f.engine.AddEntry(f.profile, f.titles[1].ID, 1)
	c, _ := f.engine.AddEntry(f.profile, f.titles[2].ID, 6)

	t.Run("Lands at the end of the destination", func(t *testing.T) {
		moved, err := f.engine.MoveToDay(a.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, 6, moved.Weekday)
		assert.Equal(t, 1, moved.SlotOrder)

		week, _ := f.engine.WeekSchedule(f.profile)
		assert.Equal(t, []int64{b.ID}, ids(week[1]))
		assert.Equal(t, []int64{c.ID, a.ID}, ids(week[6]))
	})

	t.Run("Moving to the current day is a no-op", func(t *testing.T) {
		before, _ := f.engine.WeekSchedule(f.profile)
		same, err := f.engine.MoveToDay(c.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, 0, same.SlotOrder)

		after, _ := f.engine.WeekSchedule(f.profile)
		assert.Equal(t, ids(before[6]), ids(after[6]))
		for i := range after[6] {
			assert.Equal(t, before[6][i].SlotOrder, after[6][i].SlotOrder)
		}
	})

	t.Run("Empty destination starts at 0", func(t *testing.T) {
		moved, err := f.engine.MoveToDay(b.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, moved.SlotOrder)
	})

	t.Run("Title already on the destination", func(t *testing.T) {
		dup, err := f.engine.AddEntry(f.profile, f.titles[0].ID, 2)
		require.NoError(t, err)
		_, err = f.engine.MoveToDay(dup.ID, 6)
		assert.True(t, apperr.Is(err, apperr.DuplicateEntry))
	})

	t.Run("Invalid weekday and missing entry", func(t *testing.T) {
		_, err := f.engine.MoveToDay(a.ID, 7)
		assert.True(t, apperr.Is(err, apperr.InvalidArgument))
		_, err = f.engine.MoveToDay(9999, 2)
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})
}

func TestSetEnabledKeepsOrdering(t *testing.T) {
	f := setup(t, 2)
	a, _ := f.engine.AddEntry(f.profile, f.titles[0].ID, 1)
	b, _ := f.engine.AddEntry(f.profile, f.titles[1].ID, 1)

	off, err := f.engine.SetEnabled(a.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Enabled)

	week, _ := f.engine.WeekSchedule(f.profile)
	assert.Equal(t, []int64{a.ID, b.ID}, ids(week[1]))
	assert.False(t, week[1][0].Enabled)
}

func TestWeekScheduleOrderingHoldsUnderRandomOperations(t *testing.T) {
	f := setup(t, 6)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		week, err := f.engine.WeekSchedule(f.profile)
		require.NoError(t, err)
		var all []*models.ScheduleEntry
		for _, day := range week {
			all = append(all, day...)
		}

		switch op := rng.Intn(4); {
		case op == 0 || len(all) == 0:
			title := f.titles[rng.Intn(len(f.titles))]
			_, err = f.engine.AddEntry(f.profile, title.ID, rng.Intn(7))
		case op == 1:
			err = f.engine.RemoveEntry(all[rng.Intn(len(all))].ID)
		case op == 2:
			_, err = f.engine.ReorderSlot(all[rng.Intn(len(all))].ID, rng.Intn(8))
		default:
			_, err = f.engine.MoveToDay(all[rng.Intn(len(all))].ID, rng.Intn(7))
		}
		if err != nil {
			require.True(t, apperr.Is(err, apperr.DuplicateEntry), "unexpected error: %v", err)
		}

		week, err = f.engine.WeekSchedule(f.profile)
		require.NoError(t, err)
		for d, day := range week {
			for j := 1; j < len(day); j++ {
				prev, cur := day[j-1], day[j]
				assert.Equal(t, d, cur.Weekday)
				ordered := prev.SlotOrder < cur.SlotOrder || (prev.SlotOrder == cur.SlotOrder && prev.ID < cur.ID)
				require.True(t, ordered, "day %d out of order at step %d", d, i)
			}
		}
	}
}

func TestWeekScheduleIsolatesProfiles(t *testing.T) {
	f := setup(t, 1)
	other, err := f.store.CreateProfile(f.titles[0].HouseholdID, "Bob")
	require.NoError(t, err)

	_, err = f.engine.AddEntry(f.profile, f.titles[0].ID, 3)
	require.NoError(t, err)

	week, err := f.engine.WeekSchedule(other.ID)
	require.NoError(t, err)
	for d := range week {
		assert.Empty(t, week[d])
	}
}
