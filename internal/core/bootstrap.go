package core

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/auth"
)

const (
	DefaultHousehold = "Home"
	DefaultAdmin     = "admin"
	DefaultProfile   = "Default"
)

// Bootstrap provisions a household with an admin user and a profile when the
// database has no users. It returns the generated admin password, or "" when
// nothing was created.
func (a *App) Bootstrap() (string, error) {
	count, err := a.store.CountUsers()
	if err != nil {
		return "", fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return "", nil
	}

	household, err := a.store.GetHouseholdByName(DefaultHousehold)
	if err != nil {
		household, err = a.store.CreateHousehold(DefaultHousehold)
		if err != nil {
			return "", fmt.Errorf("failed to create household: %w", err)
		}
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin password: %w", err)
	}
	if _, err := a.store.CreateUser(household.ID, DefaultAdmin, hash, "admin"); err != nil {
		return "", fmt.Errorf("failed to create admin user: %w", err)
	}

	profiles, err := a.store.ListProfiles(household.ID)
	if err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		if _, err := a.store.CreateProfile(household.ID, DefaultProfile); err != nil {
			return "", fmt.Errorf("failed to create default profile: %w", err)
		}
	}

	log.Info().Str("household", household.Name).Str("username", DefaultAdmin).Msg("Provisioned first household")
	return password, nil
}
