package models

import "time"

// TokenPair — пара токенов, выдаваемая при входе.
//
// Описание:
//   - AccessToken — короткоживущий JWT для доступа к API, возвращается в теле ответа;
//   - RefreshToken — долгоживущий JWT, уходит клиенту только в HttpOnly-cookie
//     и никогда не попадает в тело ответа;
//   - сервер токены не хранит: оба живут исключительно у клиента.
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления access-токена.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}

// AccessToken — access-токен, выданный по refresh-токену.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// AccessClaims — полезная нагрузка access-токена после успешной проверки.
type AccessClaims struct {
	Username string
	Roles    []string
}
