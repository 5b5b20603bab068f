package api

import (
	"net/http"

	"github.com/vrsandeep/showtime-go/internal/apperr"
	"github.com/vrsandeep/showtime-go/internal/auth"
	"github.com/vrsandeep/showtime-go/internal/models"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
}

// householdUser loads {userID} and hides users of other households.
func (s *Server) householdUser(r *http.Request) (*models.User, error) {
	userID, err := pathID(r, "userID")
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.HouseholdID != getUserFromContext(r).HouseholdID {
		return nil, apperr.NotFoundf("api.user", "user %d not found", userID)
	}
	return user, nil
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(getUserFromContext(r).HouseholdID)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, users)
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	passwordHash, err := auth.HashPassword(payload.Password)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user, err := s.store.CreateUser(getUserFromContext(r).HouseholdID, payload.Username, passwordHash, payload.Role)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.householdUser(r)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	var payload updateUserRequest
	if err := decodeJSON(r, &payload); err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	if err := s.store.UpdateUser(user.ID, payload.Username, payload.Role); err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	if payload.Password != "" {
		passwordHash, err := auth.HashPassword(payload.Password)
		if err != nil {
			RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if err := s.store.UpdateUserPassword(user.ID, passwordHash); err != nil {
			RespondWithAppError(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.householdUser(r)
	if err != nil {
		RespondWithAppError(w, r, err)
		return
	}

	if getUserFromContext(r).ID == user.ID {
		RespondWithError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := s.store.DeleteUser(user.ID); err != nil {
		RespondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
