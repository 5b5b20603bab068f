package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/store"
	"github.com/vrsandeep/showtime-go/internal/testutil"
)

func TestLibraryStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	fx := testutil.SeedHousehold(t, s, "Home", "Alice")
	hid := fx.Household.ID

	t.Run("Rejects bad input", func(t *testing.T) {
		_, err := s.CreateTrackedTitle(&models.TrackedTitle{HouseholdID: hid, TMDBID: 1, MediaType: "anime"})
		assert.True(t, apperr.Is(err, apperr.InvalidArgument))
		_, err = s.CreateTrackedTitle(&models.TrackedTitle{HouseholdID: hid, TMDBID: 0, MediaType: models.MediaTypeTV})
		assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	})

	t.Run("Same TMDB id is unique per media type", func(t *testing.T) {
		testutil.AddTitle(t, s, hid, 100, models.MediaTypeTV, "Show 100")
		_, err := s.CreateTrackedTitle(&models.TrackedTitle{HouseholdID: hid, TMDBID: 100, MediaType: models.MediaTypeTV})
		assert.True(t, apperr.Is(err, apperr.DuplicateEntry), "got %v", err)

		_, err = s.CreateTrackedTitle(&models.TrackedTitle{HouseholdID: hid, TMDBID: 100, MediaType: models.MediaTypeMovie, Title: "Movie 100"})
		assert.NoError(t, err)
	})

	t.Run("List uses title order", func(t *testing.T) {
		testutil.AddTitle(t, s, hid, 200, models.MediaTypeTV, "The Bear")
		testutil.AddTitle(t, s, hid, 201, models.MediaTypeTV, "Andor")

		titles, err := s.ListTrackedTitles(hid)
		require.NoError(t, err)
		var names []string
		for _, title := range titles {
			names = append(names, title.Title)
		}
		assert.Equal(t, []string{"Andor", "The Bear", "Movie 100", "Show 100"}, names)
	})

	t.Run("Get and delete", func(t *testing.T) {
		title := testutil.AddTitle(t, s, hid, 300, models.MediaTypeMovie, "Heat")
		got, err := s.GetTrackedTitle(title.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(300), got.TMDBID)
		assert.Equal(t, models.MediaTypeMovie, got.MediaType)

		require.NoError(t, s.DeleteTrackedTitle(title.ID))
		_, err = s.GetTrackedTitle(title.ID)
		assert.True(t, apperr.Is(err, apperr.NotFound))
		assert.True(t, apperr.Is(s.DeleteTrackedTitle(title.ID), apperr.NotFound))
	})
}

func TestDeleteTrackedTitleCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := store.New(db)
	fx := testutil.SeedHousehold(t, s, "Home", "Alice")
	title := testutil.AddTitle(t, s, fx.Household.ID, 1396, models.MediaTypeTV, "Breaking Bad")
	keep := testutil.AddTitle(t, s, fx.Household.ID, 1398, models.MediaTypeTV, "The Sopranos")

	for weekday, titleID := range []int64{title.ID, title.ID, keep.ID} {
		require.NoError(t, s.CreateScheduleEntry(&models.ScheduleEntry{
			ProfileID: fx.Profile.ID, TrackedTitleID: titleID, Weekday: weekday, Enabled: true,
		}))
	}
	_, err := s.UpsertProgress(fx.Profile.ID, title.ID, 2, 3)
	require.NoError(t, err)

	require.NoError(t, s.DeleteTrackedTitle(title.ID))

	entries, err := s.ListScheduleEntries(fx.Profile.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].TrackedTitleID)

	_, err = s.GetProgress(fx.Profile.ID, title.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
