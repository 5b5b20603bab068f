package api

import (
	"errors"
	"net/http"

	"github.com/vrsandeep/showtime-go/internal/jobs"
)

type runJobRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

func (s *Server) handleRunAdminJob(w http.ResponseWriter, r *http.Request) {
	var payload runJobRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	err := s.app.JobManager().RunJob(payload.JobID)
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		// 409 Conflict if a job is already running
		RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Job '" + payload.JobID + "' started successfully.",
	})
}

func (s *Server) handleGetAdminJobsStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.JobManager().GetStatus())
}
