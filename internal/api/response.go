package api

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/vrsandeep/showtime-go/internal/apperr"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

var kindStatus = map[apperr.Kind]int{
	apperr.InvalidArgument:     http.StatusBadRequest,
	apperr.NotFound:            http.StatusNotFound,
	apperr.DuplicateEntry:      http.StatusConflict,
	apperr.UpstreamUnavailable: http.StatusServiceUnavailable,
	apperr.Internal:            http.StatusInternalServerError,
}

var kindFallback = map[apperr.Kind]string{
	apperr.UpstreamUnavailable: "Upstream service unavailable",
	apperr.Internal:            "Internal server error",
}

// RespondWithAppError maps a classified error to its status code. Internal
// errors are logged and never echoed to the client.
func RespondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := apperr.Message(err)
	if kind == apperr.Internal || message == "" {
		message = kindFallback[kind]
		if message == "" {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Str("kind", string(kind)).Msg("Request failed")
	}
	RespondWithJSON(w, status, map[string]string{"error": message, "code": string(kind)})
}
