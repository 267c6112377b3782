package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/Chathura-Ranasinghe/notebook-backend/internal/errors"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
)

// userResponse — пользователь в ответах API. Хэш пароля наружу не отдаётся.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Roles:     u.Roles,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type createUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type updateUserRequest struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Active   *bool    `json:"active"`
	Password string   `json:"password,omitempty"`
}

type deleteUserRequest struct {
	ID string `json:"id"`
}

// ListUsers обрабатывает GET /users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, out)
}

// CreateUser обрабатывает POST /users.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in createUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	user, err := h.service.CreateUser(r.Context(), in.Username, in.Password, in.Roles)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("New user %s created", user.Username),
	})
}

// UpdateUser обрабатывает PATCH /users.
// ID передаётся в теле запроса (исторический контракт фронта).
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in updateUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	id, err := uuid.Parse(in.ID)
	if err != nil || in.Active == nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, in.Username, in.Roles, *in.Active, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("%s updated", user.Username),
	})
}

// DeleteUser обрабатывает DELETE /users.
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var in deleteUserRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	id, err := uuid.Parse(in.ID)
	if err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	user, err := h.service.DeleteUser(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Username %s with ID %s deleted", user.Username, user.ID),
	})
}
