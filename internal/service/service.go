// service содержит бизнес-логику notebook-backend:
// аутентификацию пользователей, выпуск/проверку токенов и CRUD-операции
// над пользователями и заметками через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Сессии не хранятся на сервере: access- и refresh-токены живут только
//     у клиента, logout ничего не отзывает (известное ограничение).
//   - Ошибки возвращаются и далее маппятся HTTP-слоем на статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/config"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/storage"
)

var (
	// ErrMissingCredentials — логин или пароль не переданы. HTTP 400.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrInvalidCredentials — пара логин/пароль неверна, пользователь не найден
	// или деактивирован. Случаи намеренно неразличимы снаружи. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingRefreshToken — refresh-токен (cookie) отсутствует. HTTP 401.
	ErrMissingRefreshToken = errors.New("refresh token is missing")

	// ErrInvalidToken — токен некорректен по подписи/формату или просрочен.
	// Причины намеренно не различаются, чтобы не давать оракула. HTTP 403.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingFields — не переданы обязательные поля CRUD-запроса. HTTP 400.
	ErrMissingFields = errors.New("all fields are required")

	// ErrEmptyRoles — список ролей пользователя пуст. HTTP 400.
	ErrEmptyRoles = errors.New("at least one role is required")

	// ErrUsernameTaken — username уже занят другим пользователем. HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrTitleTaken — заголовок заметки уже занят (без учёта регистра). HTTP 409.
	ErrTitleTaken = errors.New("note title already taken")

	// ErrUserNotFound — пользователь не найден. HTTP 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoteNotFound — заметка не найдена. HTTP 404.
	ErrNoteNotFound = errors.New("note not found")

	// ErrUserHasNotes — пользователя нельзя удалить, пока за ним числятся заметки. HTTP 409.
	ErrUserHasNotes = errors.New("user has assigned notes")
)

// Service описывает бизнес-логику notebook-backend.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
