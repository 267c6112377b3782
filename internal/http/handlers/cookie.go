package handlers

import (
	"net/http"
	"time"
)

// refreshCookieName — имя сессионной cookie с refresh-токеном.
const refreshCookieName = "jwt"

// cookiePath ограничивает cookie маршрутами /auth: refresh-токен
// не уходит на CRUD-эндпойнты.
const cookiePath = "/auth"

// setRefreshCookie кладёт refresh-токен в HttpOnly-cookie.
// Secure + SameSite=None: cookie ходит только по HTTPS, в том числе кросс-доменно.
func setRefreshCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     cookiePath,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearRefreshCookie просит клиента забыть cookie.
// Атрибуты совпадают с setRefreshCookie — иначе браузер не сопоставит cookie.
func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
