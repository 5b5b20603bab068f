package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/vrsandeep/showtime-go/internal/api"
	"github.com/vrsandeep/showtime-go/internal/auth"
	"github.com/vrsandeep/showtime-go/internal/models"
)

// DefaultHousehold is the household GetAuthCookie puts users in.
const DefaultHousehold = "Home"

// EnsureHousehold returns the household with the given name, creating it if needed.
func EnsureHousehold(t *testing.T, s *api.Server, name string) *models.Household {
	t.Helper()
	if h, err := s.Store().GetHouseholdByName(name); err == nil {
		return h
	}
	h, err := s.Store().CreateHousehold(name)
	if err != nil {
		t.Fatalf("Failed to create household %q: %v", name, err)
	}
	return h
}

// GetAuthCookie creates a user in the default household, logs them in, and
// returns a valid session cookie.
func GetAuthCookie(t *testing.T, s *api.Server, username, password, role string) *http.Cookie {
	t.Helper()
	return CookieInHousehold(t, s, DefaultHousehold, username, password, role)
}

// CookieInHousehold is GetAuthCookie for a named household.
func CookieInHousehold(t *testing.T, s *api.Server, household, username, password, role string) *http.Cookie {
	t.Helper()
	h := EnsureHousehold(t, s, household)

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password for test user: %v", err)
	}
	if _, err := s.Store().CreateUser(h.ID, username, passwordHash, role); err != nil {
		t.Fatalf("Failed to create test user '%s': %v", username, err)
	}

	return Login(t, s, username, password)
}

// Login posts credentials and returns the session cookie.
func Login(t *testing.T, s *api.Server, username, password string) *http.Cookie {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req, _ := http.NewRequest("POST", "/api/users/login", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("Login failed within test helper for user '%s': got status %d, want 200", username, status)
	}

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}

	t.Fatal("Failed to get session cookie after successful login for test user")
	return nil
}
