package models

import (
	"time"

	"github.com/google/uuid"
)

// Note — внутренняя доменная модель заметки (MongoDB).
// Важно:
//   - ID — ObjectID MongoDB. Наружу/вовнутрь конвертируется в string;
//   - UserID — UUID владельца заметки;
//   - Title — уникален без учёта регистра (collation strength=2);
//   - Ticket — сквозной номер, выдаётся атомарным счётчиком (начиная с 500);
//   - Username заполняется при выдаче списка (join по владельцу), в БД не хранится.
type Note struct {
	ID        string
	UserID    uuid.UUID
	Username  string
	Title     string
	Text      string
	Completed bool
	Ticket    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
