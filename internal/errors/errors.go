// errors стандартизирует ответы об ошибках HTTP-слоя notebook-backend.
// На вход он принимает доменную ошибку (сентинел из пакета service),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Таксономия (см. service):
//   - ошибки валидации (не переданы поля) -> 400;
//   - ошибки аутентификации (неизвестный/неактивный пользователь, неверный
//     пароль, отсутствующая cookie) -> 401, все случаи неразличимы;
//   - ошибки авторизации (токен предъявлен, но невалиден/просрочен) -> 403;
//   - not found -> 404, конфликты уникальности/зависимостей -> 409;
//   - прочее -> 500/internal без деталей (подробности остаются в логах).
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - несентинельные ошибки (БД недоступна и т.п.) -> 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	httpStatus, code, msg := base(err)

	return httpStatus, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — базовый маппинг доменная ошибка -> HTTP/FE-код/сообщение.
func base(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrEmptyRoles):
		return http.StatusBadRequest, "invalid_argument", "all fields are required"
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMissingRefreshToken):
		return http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusForbidden, "forbidden", "forbidden"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "user not found"
	case errors.Is(err, service.ErrNoteNotFound):
		return http.StatusNotFound, "not_found", "note not found"
	case errors.Is(err, service.ErrUsernameTaken):
		return http.StatusConflict, "already_exists", "duplicate username"
	case errors.Is(err, service.ErrTitleTaken):
		return http.StatusConflict, "already_exists", "duplicate note title"
	case errors.Is(err, service.ErrUserHasNotes):
		return http.StatusConflict, "conflict", "user has assigned notes"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
