package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/storage"
)

// ListNotes возвращает все заметки, дополняя каждую username владельца.
// Владельцы читаются одним запросом, а не по заметке за раз.
func (s *Service) ListNotes(ctx context.Context) ([]models.Note, error) {
	const op = "service.notes.ListNotes"

	notes, err := s.storage.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(notes) == 0 {
		return notes, nil
	}

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	for i := range notes {
		notes[i].Username = usernames[notes[i].UserID]
	}

	return notes, nil
}

// CreateNote создаёт заметку для существующего пользователя.
// Ticket-номер присваивается хранилищем атомарно.
func (s *Service) CreateNote(ctx context.Context, userID uuid.UUID, title, text string) (*models.Note, error) {
	const op = "service.notes.CreateNote"

	if userID == uuid.Nil || title == "" || text == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if _, err := s.storage.UserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	note := &models.Note{
		UserID:    userID,
		Title:     title,
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.storage.SaveNote(ctx, note)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrTitleTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// UpdateNote обновляет владельца, заголовок, текст и статус заметки.
func (s *Service) UpdateNote(ctx context.Context, id string, userID uuid.UUID, title, text string, completed bool) (*models.Note, error) {
	const op = "service.notes.UpdateNote"

	if id == "" || userID == uuid.Nil || title == "" || text == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	note, err := s.storage.NoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoteNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.UserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	note.UserID = userID
	note.Title = title
	note.Text = text
	note.Completed = completed
	note.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrTitleTaken)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoteNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return note, nil
}

// DeleteNote удаляет заметку по ID.
func (s *Service) DeleteNote(ctx context.Context, id string) (*models.Note, error) {
	const op = "service.notes.DeleteNote"

	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	note, err := s.storage.NoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoteNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoteNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return note, nil
}
