package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/showtime-go/internal/assets"
	"github.com/vrsandeep/showtime-go/internal/db"
	"github.com/vrsandeep/showtime-go/internal/testutil"
)

func TestForeignKeyCascadeDelete(t *testing.T) {
	database := testutil.SetupTestDB(t)

	var foreignKeysEnabled int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysEnabled))
	assert.Equal(t, 1, foreignKeysEnabled, "foreign keys should be enabled")

	stmts := []string{
		"INSERT INTO households (id, name) VALUES (1, 'Home')",
		"INSERT INTO users (household_id, username, password_hash) VALUES (1, 'alice', 'hash')",
		"INSERT INTO profiles (id, household_id, name) VALUES (1, 1, 'Alice')",
		"INSERT INTO tracked_titles (id, household_id, tmdb_id, media_type) VALUES (1, 1, 1399, 'tv')",
		"INSERT INTO schedule_entries (profile_id, tracked_title_id, weekday, slot_order) VALUES (1, 1, 2, 0)",
		"INSERT INTO progress (profile_id, tracked_title_id, season_number, episode_number) VALUES (1, 1, 1, 1)",
	}
	for _, stmt := range stmts {
		_, err := database.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	_, err := database.Exec("DELETE FROM households WHERE id = 1")
	require.NoError(t, err)

	for _, table := range []string{"users", "profiles", "tracked_titles", "schedule_entries", "progress"} {
		var n int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, "%s should be emptied by the cascade", table)
	}
}

func TestCheckConstraints(t *testing.T) {
	database := testutil.SetupTestDB(t)
	_, err := database.Exec("INSERT INTO households (id, name) VALUES (1, 'Home')")
	require.NoError(t, err)

	_, err = database.Exec("INSERT INTO tracked_titles (household_id, tmdb_id, media_type) VALUES (1, 1, 'anime')")
	assert.Error(t, err, "unknown media type")
	_, err = database.Exec("INSERT INTO users (household_id, username, password_hash, role) VALUES (1, 'x', 'h', 'root')")
	assert.Error(t, err, "unknown role")
}

func TestInitDBAndMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showtime.db")
	database, err := db.InitDB(path)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.RunMigrations(database, assets.MigrationsFS))
	require.NoError(t, db.RunMigrations(database, assets.MigrationsFS), "second run is a no-op")

	var n int
	require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM schedule_entries").Scan(&n))
	assert.Zero(t, n)
}
