package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	now := time.Now().UTC()
	token, err := svc.generateAccessToken(context.Background(), "dan", []string{"Employee", "Manager"}, now)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.validateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "dan", claims.Username)
	require.Equal(t, []string{"Employee", "Manager"}, claims.Roles)
}

// Порча токена делает его невалидным: заголовок, полезная нагрузка и подпись
// защищены одинаково. Мутируем первый символ каждого сегмента — его биты всегда
// попадают в декодированные байты, в отличие от последнего символа, где младшие
// биты отбрасываются при base64url-декодировании.
func TestAccessToken_TamperedByteRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.generateAccessToken(context.Background(), "dan", []string{"Employee"}, time.Now().UTC())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	for i := range parts {
		mutated := make([]string, len(parts))
		copy(mutated, parts)
		seg := []byte(mutated[i])
		seg[0] ^= 0x01
		mutated[i] = string(seg)

		_, err := svc.validateAccessToken(strings.Join(mutated, "."))
		require.ErrorIs(t, err, ErrInvalidToken, "tampered segment %d", i)
	}

	// Порча байта самой подписи с повторным кодированием в base64url.
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[len(sig)/2] ^= 0x01

	forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(sig)
	_, err = svc.validateAccessToken(forged)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Выпускаем токен в прошлом так, чтобы он истёк с запасом больше leeway.
	past := time.Now().UTC().Add(-svc.cfg.AccessTokenTTL - time.Minute)
	token, err := svc.generateAccessToken(context.Background(), "dan", []string{"Employee"}, past)
	require.NoError(t, err)

	_, err = svc.validateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	cfg := testCfg()
	cfg.AccessSecret = "another-secret"
	stranger := New(nil, cfg)

	token, err := stranger.generateAccessToken(context.Background(), "dan", []string{"Employee"}, time.Now().UTC())
	require.NoError(t, err)

	_, err = svc.validateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_WrongIssuer(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	cfg := testCfg()
	cfg.Issuer = "someone-else"
	stranger := New(nil, cfg)

	token, err := stranger.generateAccessToken(context.Background(), "dan", []string{"Employee"}, time.Now().UTC())
	require.NoError(t, err)

	_, err = svc.validateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// Токен с alg=none отклоняется до проверки claims.
func TestAccessToken_NoneAlgRejected(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	claims := accessClaims{
		Username: "dan",
		Roles:    []string{"Employee"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    svc.cfg.Issuer,
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.validateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.generateRefreshToken(context.Background(), "dan", time.Now().UTC())
	require.NoError(t, err)

	username, err := svc.validateRefreshToken(token)
	require.NoError(t, err)
	require.Equal(t, "dan", username)
}

func TestRefreshToken_Expired(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	past := time.Now().UTC().Add(-svc.cfg.RefreshTokenTTL - time.Minute)
	token, err := svc.generateRefreshToken(context.Background(), "dan", past)
	require.NoError(t, err)

	_, err = svc.validateRefreshToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// Refresh-токен не проходит как access-токен: секреты и claims разные.
func TestRefreshToken_NotValidAsAccess(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.generateRefreshToken(context.Background(), "dan", time.Now().UTC())
	require.NoError(t, err)

	_, err = svc.validateAccessToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
