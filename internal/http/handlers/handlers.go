// handlers содержит REST-хендлеры notebook-backend.
// Здесь выполняется только разбор запросов и маппинг данных/ошибок
// доменного слоя (service) в HTTP. Вся валидация и бизнес-логика — в service.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	service    *service.Service
	refreshTTL time.Duration
}

// New создаёт хендлеры поверх сервисного слоя.
// refreshTTL задаёт Max-Age сессионной cookie и должен совпадать
// с TTL refresh-токена.
func New(s *service.Service, refreshTTL time.Duration) *Handlers {
	return &Handlers{
		service:    s,
		refreshTTL: refreshTTL,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// messageResponse — однострочный ответ-подтверждение.
type messageResponse struct {
	Message string `json:"message"`
}
