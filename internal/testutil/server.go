// Shared test server setup, which simplifies all API tests.

package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/vrsandeep/showtime-go/internal/api"
	"github.com/vrsandeep/showtime-go/internal/auth"
	"github.com/vrsandeep/showtime-go/internal/cache"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/core"
	"golang.org/x/crypto/bcrypt"
)

// TestConfig returns the defaults the server runs with, minus rate limiting.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache.TTL = time.Minute
	cfg.Schedule.DefaultRuntimeMinutes = 30
	cfg.Schedule.DayStart = "19:00"
	cfg.Enrichment.Concurrency = 4
	cfg.Server.RequestTimeout = 5 * time.Second
	return cfg
}

// SetupTestApp builds a core.App on an in-memory database with fake
// upstream services.
func SetupTestApp(t *testing.T) (*core.App, *Fakes) {
	t.Helper()
	auth.Cost = bcrypt.MinCost
	fakes := NewFakes()
	app := core.NewApp(TestConfig(), SetupTestDB(t), "test", core.Deps{
		Cache:     cache.New(time.Minute, 0),
		Metadata:  fakes.Metadata,
		Offers:    fakes.Offers,
		Summaries: fakes.Summaries,
	})
	return app, fakes
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *sql.DB, *Fakes) {
	t.Helper()
	app, fakes := SetupTestApp(t)
	return api.NewServer(app), app.DB(), fakes
}
