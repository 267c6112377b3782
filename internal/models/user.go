// Package models содержит доменные сущности notebook-backend.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — модель пользователя в системе.
// Важно:
//   - Username — уникален (unique-индекс в MongoDB);
//   - PasswordHash — bcrypt-хэш, наружу никогда не отдаётся;
//   - Roles — непустой список ролей ("Employee"/"Manager"/"Admin");
//   - Active — неактивный пользователь не может войти и обновить access-токен.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Roles        []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
