package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/Chathura-Ranasinghe/notebook-backend/internal/errors"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login обрабатывает POST /auth.
// Успех: access-токен в теле + refresh-токен в HttpOnly-cookie.
// Refresh-токен в тело ответа не попадает никогда.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingCredentials)
		return
	}

	pair, err := h.service.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.refreshTTL)
	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: pair.AccessToken})
}

// Refresh обрабатывает GET /auth/refresh.
// Доступен без access-токена: именно сюда клиент приходит, когда тот истёк.
// Cookie не ротируется — обновляется только access-токен.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if c, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = c.Value
	}

	token, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, accessTokenResponse{AccessToken: token.Token})
}

// Logout обрабатывает POST /auth/logout.
// Идемпотентен: без cookie отвечает 204, с cookie — чистит её и отвечает 200.
// На сервере отзывать нечего — сессия не хранится (известное ограничение:
// украденный refresh-токен живёт до естественного истечения).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(refreshCookieName); errors.Is(err, http.ErrNoCookie) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "cookie cleared"})
}
