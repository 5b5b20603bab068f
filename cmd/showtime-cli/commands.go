package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/auth"
	"github.com/vrsandeep/showtime-go/internal/core"
	"github.com/vrsandeep/showtime-go/internal/models"
)

type createUserOptions struct {
	Household string
	Username  string
	Password  string
	Role      string
}

func createUser(app *core.App, opts createUserOptions, out io.Writer) error {
	if opts.Role != "admin" && opts.Role != "user" {
		return fmt.Errorf("role must be admin or user, got %q", opts.Role)
	}
	st := app.Store()
	household, err := st.GetHouseholdByName(opts.Household)
	if apperr.Is(err, apperr.NotFound) {
		household, err = st.CreateHousehold(opts.Household)
	}
	if err != nil {
		return fmt.Errorf("failed to resolve household %q: %w", opts.Household, err)
	}

	password := opts.Password
	generated := password == ""
	if generated {
		if password, err = auth.GeneratePassword(); err != nil {
			return err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := st.CreateUser(household.ID, opts.Username, hash, opts.Role)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s %q (id %d) in household %q.\n", user.Role, user.Username, user.ID, household.Name)
	if generated {
		fmt.Fprintf(out, "Password: %s\n", password)
	}
	return nil
}

func printSchedule(app *core.App, profileID int64, out io.Writer) error {
	profile, err := app.Store().GetProfileByID(profileID)
	if err != nil {
		return err
	}
	week, err := app.Schedule().WeekSchedule(profile.ID)
	if err != nil {
		return err
	}
	titles, err := app.Store().ListTrackedTitles(profile.HouseholdID)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(titles))
	for _, t := range titles {
		names[t.ID] = t.Title
	}

	fmt.Fprintf(out, "Schedule for %s\n", profile.Name)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for d := 0; d < models.DaysPerWeek; d++ {
		fmt.Fprintf(tw, "%s\t\t\t\n", time.Weekday(d))
		for _, e := range week[d] {
			state := ""
			if !e.Enabled {
				state = "(off)"
			}
			fmt.Fprintf(tw, "\t%d\t%s\t%s\n", e.SlotOrder, names[e.TrackedTitleID], state)
		}
	}
	return tw.Flush()
}
