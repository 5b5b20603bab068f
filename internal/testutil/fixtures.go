package testutil

import (
	"testing"

	"github.com/vrsandeep/showtime-go/internal/models"
	"github.com/vrsandeep/showtime-go/internal/store"
)

// Household bundles the rows most tests need: a household with one profile.
type Household struct {
	Household *models.Household
	Profile   *models.Profile
}

// SeedHousehold creates a household named name with a single profile.
func SeedHousehold(t *testing.T, s *store.Store, name, profile string) Household {
	t.Helper()
	h, err := s.CreateHousehold(name)
	if err != nil {
		t.Fatalf("Failed to create household %q: %v", name, err)
	}
	p, err := s.CreateProfile(h.ID, profile)
	if err != nil {
		t.Fatalf("Failed to create profile %q: %v", profile, err)
	}
	return Household{Household: h, Profile: p}
}

// AddTitle puts a title into the library of a household.
func AddTitle(t *testing.T, s *store.Store, householdID, tmdbID int64, mediaType models.MediaType, name string) *models.TrackedTitle {
	t.Helper()
	title, err := s.CreateTrackedTitle(&models.TrackedTitle{
		HouseholdID: householdID,
		TMDBID:      tmdbID,
		MediaType:   mediaType,
		Title:       name,
	})
	if err != nil {
		t.Fatalf("Failed to add title %q: %v", name, err)
	}
	return title
}
