package api

// This file contains the middleware for handling authentication, household
// ownership and request logging.

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/metrics"
	"github.com/vrsandeep/showtime-go/internal/models"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey string

const (
	userContextKey    = contextKey("user")
	profileContextKey = contextKey("profile")
	entryContextKey   = contextKey("schedule_entry")
)

const sessionCookieName = "session_token"

// AuthMiddleware is a middleware that verifies a user's session.
// If the session is valid, it retrieves the user's details from the database
// and injects them into the request's context for downstream handlers to use.
func (s *Server) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: No session token")
			return
		}

		user, err := s.store.GetUserFromSession(cookie.Value)
		if err != nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized: Invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnlyMiddleware is a middleware that ensures only users with the 'admin' role can access a route.
// It must be chained *after* the AuthMiddleware.
func (s *Server) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)
		if user == nil {
			RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if user.Role != "admin" {
			RespondWithError(w, http.StatusForbidden, "Forbidden: Administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProfileMiddleware loads {profileID} and rejects profiles of other
// households as not found.
func (s *Server) ProfileMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID, err := pathID(r, "profileID")
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
		profile, err := s.ownedProfile(r, profileID)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), profileContextKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ScheduleEntryMiddleware loads {entryID} and checks that its profile
// belongs to the caller's household.
func (s *Server) ScheduleEntryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entryID, err := pathID(r, "entryID")
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
		entry, err := s.app.Schedule().Entry(entryID)
		if err != nil {
			RespondWithAppError(w, r, err)
			return
		}
		if _, err := s.ownedProfile(r, entry.ProfileID); err != nil {
			RespondWithAppError(w, r, apperr.NotFoundf("api.entry", "schedule entry %d not found", entryID))
			return
		}
		ctx := context.WithValue(r.Context(), entryContextKey, entry)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) ownedProfile(r *http.Request, profileID int64) (*models.Profile, error) {
	profile, err := s.store.GetProfileByID(profileID)
	if err != nil {
		return nil, err
	}
	if user := getUserFromContext(r); user == nil || user.HouseholdID != profile.HouseholdID {
		return nil, apperr.NotFoundf("api.profile", "profile %d not found", profileID)
	}
	return profile, nil
}

// ownedTitle loads a library title of the caller's household.
func (s *Server) ownedTitle(r *http.Request, titleID int64) (*models.TrackedTitle, error) {
	title, err := s.store.GetTrackedTitle(titleID)
	if err != nil {
		return nil, err
	}
	if user := getUserFromContext(r); user == nil || user.HouseholdID != title.HouseholdID {
		return nil, apperr.NotFoundf("api.title", "title %d not found", titleID)
	}
	return title, nil
}

// getUserFromContext is a helper function to safely retrieve the user object from the request context.
// It returns nil if the user is not found in the context.
func getUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

func getProfileFromContext(r *http.Request) *models.Profile {
	profile, _ := r.Context().Value(profileContextKey).(*models.Profile)
	return profile
}

func getEntryFromContext(r *http.Request) *models.ScheduleEntry {
	entry, _ := r.Context().Value(entryContextKey).(*models.ScheduleEntry)
	return entry
}

// requestLogger writes one structured line per request and records its
// duration under the matched route pattern.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			elapsed := time.Since(start)
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.ObserveHTTP(r.Method, route, status, elapsed)

			event := log.Info()
			if status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("HTTP request")
		}()
		next.ServeHTTP(ww, r)
	})
}
