// Package storage задаёт контракт работы с БД и общие ошибки хранилища.
package storage

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/заметка).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (username/title).
	ErrAlreadyExists = errors.New("already exists")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создаёт нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByUsername находит пользователя по username.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]models.User, error)
	// UpdateUser перезаписывает изменяемые поля пользователя.
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser удаляет пользователя по ID.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// NoteStorage выполняет операции над заметками.
type NoteStorage interface {
	// SaveNote создаёт новую заметку, присваивая ей сквозной ticket-номер.
	SaveNote(ctx context.Context, note *models.Note) (*models.Note, error)
	// NoteByID находит заметку по ID.
	NoteByID(ctx context.Context, id string) (*models.Note, error)
	// ListNotes возвращает все заметки.
	ListNotes(ctx context.Context) ([]models.Note, error)
	// UpdateNote перезаписывает изменяемые поля заметки.
	UpdateNote(ctx context.Context, note *models.Note) error
	// DeleteNote удаляет заметку по ID.
	DeleteNote(ctx context.Context, id string) error
	// CountNotesByUser возвращает количество заметок пользователя.
	CountNotesByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	NoteStorage
	Close(ctx context.Context) error
}
