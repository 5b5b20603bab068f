package jobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

const (
	SessionCleanupID = "session-cleanup"
	CacheSweepID     = "cache-sweep"
)

// RegisterAll adds the maintenance jobs to the manager.
func RegisterAll(jm *JobManager) {
	jm.Register(SessionCleanupID, "Session Cleanup", RunSessionCleanup)
	jm.Register(CacheSweepID, "Cache Sweep", RunCacheSweep)
}

// RunSessionCleanup deletes expired login sessions.
func RunSessionCleanup(ctx JobContext) (string, error) {
	removed, err := ctx.Store().DeleteExpiredSessions(time.Now())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %d expired sessions.", removed), nil
}

// RunCacheSweep drops expired upstream responses from the cache.
func RunCacheSweep(ctx JobContext) (string, error) {
	removed := ctx.Cache().EvictExpired()
	return fmt.Sprintf("Evicted %d expired cache entries, %d left.", removed, ctx.Cache().Len()), nil
}

// StartJobs starts the background job scheduler. The caller stops it.
func StartJobs(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	cfg := app.Config().Jobs
	schedule(s, app, SessionCleanupID, cfg.SessionCleanupInterval)
	schedule(s, app, CacheSweepID, cfg.CacheSweepInterval)

	log.Info().Msg("Starting background job scheduler")
	s.StartAsync()
	return s
}

func schedule(s *gocron.Scheduler, app JobContext, jobID string, interval time.Duration) {
	if interval <= 0 {
		log.Info().Str("job", jobID).Msg("Interval is 0, scheduled runs are disabled")
		return
	}

	log.Info().Str("job", jobID).Dur("interval", interval).Msg("Scheduling job")
	_, err := s.Every(interval).WaitForSchedule().Do(func() {
		log.Debug().Str("job", jobID).Msg("Scheduler is triggering job")
		// Go through the manager so scheduled and manual runs never overlap.
		if err := app.JobManager().RunJob(jobID); err != nil {
			if errors.Is(err, ErrJobRunning) {
				log.Debug().Str("job", jobID).Msg("Skipping scheduled run, another job is running")
				return
			}
			log.Warn().Err(err).Str("job", jobID).Msg("Scheduled job could not start")
		}
	})
	if err != nil {
		log.Error().Err(err).Str("job", jobID).Msg("Error scheduling job")
	}
}
