package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/Chathura-Ranasinghe/notebook-backend/internal/errors"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
)

type ctxKeyClaims struct{}

// AccessVerifier проверяет access-токен и возвращает его claims.
// Реализуется сервисным слоем (service.Service).
type AccessVerifier interface {
	VerifyAccess(accessToken string) (*models.AccessClaims, error)
}

// Authenticate защищает маршруты access-токеном:
//   - отсутствующий или не-Bearer заголовок Authorization -> 401;
//   - предъявленный, но невалидный/просроченный токен -> 403;
//   - при успехе кладёт claims (username, roles) в контекст запроса.
func Authenticate(verifier AccessVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || len(auth) == len(prefix) {
				apierrors.WriteError(w, r, service.ErrInvalidCredentials)
				return
			}

			token := strings.TrimSpace(auth[len(prefix):])
			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyClaims{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom возвращает claims аутентифицированного запроса (nil — если их нет).
func ClaimsFrom(ctx context.Context) *models.AccessClaims {
	if v, ok := ctx.Value(ctxKeyClaims{}).(*models.AccessClaims); ok {
		return v
	}
	return nil
}
