package api

import (
	"net/http"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/metrics"
	"github.com/vrsandeep/showtime-go/internal/models"
)

type addEntryRequest struct {
	TrackedTitleID int64 `json:"tracked_title_id" validate:"required,gt=0"`
	Weekday        *int  `json:"weekday" validate:"required,gte=0,lte=6"`
}

type reorderRequest struct {
	SlotOrder *int `json:"slot_order" validate:"required,gte=0"`
}

type moveRequest struct {
	Weekday *int `json:"weekday" validate:"required,gte=0,lte=6"`
}

type patchEntryRequest struct {
	Weekday   *int  `json:"weekday" validate:"omitempty,gte=0,lte=6"`
	SlotOrder *int  `json:"slot_order" validate:"omitempty,gte=0"`
	Enabled   *bool `json:"enabled"`
}

type scheduleResponse struct {
	ProfileID int64                `json:"profile_id"`
	Days      []models.DaySchedule `json:"days"`
}

// observe records the outcome of a schedule mutation.
func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = string(apperr.KindOf(err))
	}
	metrics.ObserveMutation(operation, result)
}

// handleGetSchedule returns the ordered week. ?view=timeline adds metadata,
// runtimes and clock times.
func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	switch view := r.URL.Query().Get("view"); view {
	case "", "week":
		week, err := s.app.Schedule().WeekSchedule(profile.ID)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, scheduleResponse{ProfileID: profile.ID, Days: week.Days()})
	case "timeline":
		view, err := s.app.Enricher().Week(r.Context(), profile.HouseholdID, profile.ID)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
		RespondWithJSON(w, http.StatusOK, view)
	default:
		RespondWithError(w, http.StatusBadRequest, "Unknown view '"+view+"'")
	}
}

func (s *Server) handleAddScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var payload addEntryRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	entry, err := s.app.Schedule().AddEntry(getProfileFromContext(r).ID, payload.TrackedTitleID, *payload.Weekday)
	observe("add", err)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteScheduleEntry(w http.ResponseWriter, r *http.Request) {
	err := s.app.Schedule().RemoveEntry(getEntryFromContext(r).ID)
	observe("remove", err)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var payload reorderRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	entry, err := s.app.Schedule().ReorderSlot(getEntryFromContext(r).ID, *payload.SlotOrder)
	observe("reorder", err)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, entry)
}

func (s *Server) handleMoveScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	entry, err := s.app.Schedule().MoveToDay(getEntryFromContext(r).ID, *payload.Weekday)
	observe("move", err)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, entry)
}

// handlePatchScheduleEntry applies a move, then a reorder, then the enabled
// toggle. Each step is its own write; a failure leaves earlier steps applied.
func (s *Server) handlePatchScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var payload patchEntryRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	if payload.Weekday == nil && payload.SlotOrder == nil && payload.Enabled == nil {
		RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	engine := s.app.Schedule()
	entry := getEntryFromContext(r)
	var err error
	if payload.Weekday != nil {
		entry, err = engine.MoveToDay(entry.ID, *payload.Weekday)
		observe("move", err)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
	}
	if payload.SlotOrder != nil {
		entry, err = engine.ReorderSlot(entry.ID, *payload.SlotOrder)
		observe("reorder", err)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
	}
	if payload.Enabled != nil {
		entry, err = engine.SetEnabled(entry.ID, *payload.Enabled)
		observe("toggle", err)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
	}
	RespondWithJSON(w, http.StatusOK, entry)
}
