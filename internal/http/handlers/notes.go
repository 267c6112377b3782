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

// noteResponse — заметка в ответах API, дополненная username владельца.
type noteResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Username  string    `json:"username,omitempty"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Ticket    int64     `json:"ticket"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toNoteResponse(n models.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		User:      n.UserID.String(),
		Username:  n.Username,
		Title:     n.Title,
		Text:      n.Text,
		Completed: n.Completed,
		Ticket:    n.Ticket,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type createNoteRequest struct {
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type updateNoteRequest struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Completed *bool  `json:"completed"`
}

type deleteNoteRequest struct {
	ID string `json:"id"`
}

// ListNotes обрабатывает GET /notes.
func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}

	writeJSON(w, http.StatusOK, out)
}

// CreateNote обрабатывает POST /notes.
func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	var in createNoteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	userID, err := uuid.Parse(in.User)
	if err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	if _, err := h.service.CreateNote(r.Context(), userID, in.Title, in.Text); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "New note created"})
}

// UpdateNote обрабатывает PATCH /notes.
func (h *Handlers) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var in updateNoteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	userID, err := uuid.Parse(in.User)
	if err != nil || in.Completed == nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	note, err := h.service.UpdateNote(r.Context(), in.ID, userID, in.Title, in.Text, *in.Completed)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("'%s' updated", note.Title),
	})
}

// DeleteNote обрабатывает DELETE /notes.
func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	var in deleteNoteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	note, err := h.service.DeleteNote(r.Context(), in.ID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Note '%s' with ID %s deleted", note.Title, note.ID),
	})
}
