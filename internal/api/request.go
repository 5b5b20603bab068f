package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/validation"
)

// decodeJSON reads the body into v and validates its tags. An empty body
// counts as an empty object.
func decodeJSON(r *http.Request, v any) error {
	const op = "api.decode"
	if r.Body == nil {
		r.Body = http.NoBody
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Invalid(op, "Invalid request payload")
	}
	if err := validation.Struct(v); err != nil {
		return apperr.Invalid(op, "%s", err.Error())
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("api.pathID", "Invalid %s", name)
	}
	return id, nil
}
