package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/cache"
	"github.com/vrsandeep/showtime-go/internal/config"
	"github.com/vrsandeep/showtime-go/internal/metrics"
	"github.com/vrsandeep/showtime-go/internal/store"
)

// JobContext provides the dependencies a job needs. core.App implements it.
type JobContext interface {
	Store() *store.Store
	Cache() cache.Cache
	Config() *config.Config
	JobManager() *JobManager
}

// jobTask returns a short message describing what it did.
type jobTask func(ctx JobContext) (string, error)

type JobStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

// ErrJobRunning is returned when another job holds the manager.
var ErrJobRunning = fmt.Errorf("a job is already running")

// ErrJobNotFound is returned for an unregistered job id.
var ErrJobNotFound = fmt.Errorf("job not found")

// JobManager runs at most one job at a time.
type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running bool
	appCtx  JobContext
}

func NewManager(appCtx JobContext) *JobManager {
	return &JobManager{
		jobs:   make(map[string]jobTask),
		status: make(map[string]*JobStatus),
		appCtx: appCtx,
	}
}

func (jm *JobManager) Register(id, name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[id] = task
	jm.status[id] = &JobStatus{ID: id, Name: name, Status: "idle"}
}

// RunJob starts a job in the background with the manager's app context.
func (jm *JobManager) RunJob(id string) error {
	return jm.run(id, jm.appCtx)
}

func (jm *JobManager) run(id string, ctx JobContext) error {
	jm.mu.Lock()
	if jm.running {
		jm.mu.Unlock()
		return ErrJobRunning
	}
	task, ok := jm.jobs[id]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	jm.running = true
	status := jm.status[id]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	jm.mu.Unlock()

	log.Info().Str("job", id).Msg("Starting job")
	go func() {
		var (
			msg string
			err error
		)
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("job", id).Interface("panic", r).Msg("Job panicked")
				err = fmt.Errorf("job panicked: %v", r)
			}

			jm.mu.Lock()
			status.EndTime = time.Now()
			if err != nil {
				status.Status = "failed"
				status.Message = err.Error()
			} else {
				status.Status = "success"
				status.Message = msg
			}
			jm.running = false
			elapsed := status.EndTime.Sub(status.StartTime)
			result := status.Status
			jm.mu.Unlock()

			metrics.JobRunsTotal.WithLabelValues(id, result).Inc()
			log.Info().Str("job", id).Str("status", result).Dur("elapsed", elapsed).Msg("Finished job")
		}()

		msg, err = task(ctx)
	}()
	return nil
}

// GetStatus returns a snapshot of every registered job, sorted by id.
func (jm *JobManager) GetStatus() []JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })
	return statuses
}
