// Command showtime-cli runs maintenance tasks against the showtime database.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/showtime-go/internal/assets"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/core"
	"github.com/vrsandeep/showtime-go/internal/db"
	"github.com/vrsandeep/showtime-go/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "showtime-cli",
		Short:        "Maintenance commands for a showtime database",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newCreateUserCmd(), newScheduleCmd())
	return root
}

// withApp loads config, opens and migrates the database, and hands the app to fn.
func withApp(fn func(app *core.App) error) error {
	app, err := core.New("cli")
	if err != nil {
		return err
	}
	defer app.Close()
	logging.Init(app.Config().Log)
	return fn(app)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logging.Init(cfg.Log)

			database, err := db.InitDB(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			log.Info().Str("database", cfg.Database.Path).Msg("Applying database migrations...")
			if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully.")
			return nil
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	var opts createUserOptions
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user, and the household if it does not exist yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(app *core.App) error {
				return createUser(app, opts, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&opts.Household, "household", core.DefaultHousehold, "household name")
	cmd.Flags().StringVar(&opts.Username, "username", "", "login name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password; generated when empty")
	cmd.Flags().StringVar(&opts.Role, "role", "user", "admin or user")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newScheduleCmd() *cobra.Command {
	var profileID int64
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the ordered week of a profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(app *core.App) error {
				return printSchedule(app, profileID, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().Int64Var(&profileID, "profile", 0, "profile id")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}
