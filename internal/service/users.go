package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/pkg/log"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/pkg/redact"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/storage"
)

// ListUsers возвращает всех пользователей.
// Хэш пароля наружу не отдаётся — его отбрасывает HTTP-слой.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "service.users.ListUsers"

	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// CreateUser создаёт нового пользователя.
func (s *Service) CreateUser(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	const op = "service.users.CreateUser"

	if username == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if len(roles) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyRoles)
	}

	_, err := s.storage.UserByUsername(ctx, username)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Roles:        roles,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_created",
		slog.String("op", op),
		slog.String("username", redact.Username(user.Username)),
	)

	return user, nil
}

// UpdateUser обновляет username/roles/active и, опционально, пароль.
// Пустой password означает «пароль не менять».
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, username string, roles []string, active bool, password string) (*models.User, error) {
	const op = "service.users.UpdateUser"

	if id == uuid.Nil || username == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if len(roles) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyRoles)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Переименование допустимо, но не в занятый username.
	if duplicate, err := s.storage.UserByUsername(ctx, username); err == nil {
		if duplicate.ID != id {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user.Username = username
	user.Roles = roles
	user.Active = active
	user.UpdatedAt = time.Now().UTC()

	if password != "" {
		hashedPassword, err := hashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		user.PasswordHash = hashedPassword
	}

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// DeleteUser удаляет пользователя.
// Пользователь с заметками не удаляется — сперва нужно разобрать заметки.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "service.users.DeleteUser"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	count, err := s.storage.CountNotesByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if count > 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUserHasNotes)
	}

	user, err := s.storage.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("user_deleted",
		slog.String("op", op),
		slog.String("user_id", id.String()),
	)

	return user, nil
}
