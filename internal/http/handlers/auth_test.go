package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/config"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/storage"
	"github.com/Chathura-Ranasinghe/notebook-backend/mocks"
)

const testRefreshTTL = 7 * 24 * time.Hour

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:    "unit-access-secret",
		RefreshSecret:   "unit-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: testRefreshTTL,
		Issuer:          "notebook-backend",
	}
}

func newTestHandlers(t *testing.T) (*Handlers, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, testAuthCfg())
	return New(svc, testRefreshTTL), st, ctrl
}

func testUser(t *testing.T, username, password string, roles ...string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	if len(roles) == 0 {
		roles = []string{"Employee"}
	}
	return &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Roles:        roles,
		Active:       true,
	}
}

func jsonReq(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type errBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) errBody {
	t.Helper()
	var out errBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func refreshCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_SetsCookieAndReturnsAccessToken(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	st.EXPECT().UserByUsername(gomock.Any(), "dan").
		Return(testUser(t, "dan", "Abcdef1!"), nil)

	rr := httptest.NewRecorder()
	h.Login(rr, jsonReq(t, http.MethodPost, "/auth", `{"username":"dan","password":"Abcdef1!"}`))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	c := refreshCookie(t, rr)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteNoneMode, c.SameSite)
	require.Equal(t, "/auth", c.Path)
	require.Equal(t, int(testRefreshTTL.Seconds()), c.MaxAge)

	// Refresh-токен живёт только в cookie и никогда в теле ответа.
	require.NotContains(t, rr.Body.String(), c.Value)
}

func TestLogin_MalformedBody_400(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	rr := httptest.NewRecorder()
	h.Login(rr, jsonReq(t, http.MethodPost, "/auth", `{"username":`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid_argument", decodeErr(t, rr).Error.Code)
	require.Nil(t, refreshCookie(t, rr))
}

func TestLogin_MissingFields_400(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	rr := httptest.NewRecorder()
	h.Login(rr, jsonReq(t, http.MethodPost, "/auth", `{"username":"dan"}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "all fields are required", decodeErr(t, rr).Error.Message)
}

func TestLogin_BadCredentials_401_NoCookie(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	st.EXPECT().UserByUsername(gomock.Any(), "ghost").
		Return(nil, storage.ErrNotFound)

	rr := httptest.NewRecorder()
	h.Login(rr, jsonReq(t, http.MethodPost, "/auth", `{"username":"ghost","password":"Abcdef1!"}`))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthorized", decodeErr(t, rr).Error.Message)
	require.Nil(t, refreshCookie(t, rr))
}

func TestRefresh_WithValidCookie(t *testing.T) {
	t.Parallel()

	h, st, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	user := testUser(t, "dan", "Abcdef1!")
	st.EXPECT().UserByUsername(gomock.Any(), "dan").Return(user, nil).Times(2)

	// Логинимся, чтобы получить настоящую cookie.
	loginRR := httptest.NewRecorder()
	h.Login(loginRR, jsonReq(t, http.MethodPost, "/auth", `{"username":"dan","password":"Abcdef1!"}`))
	require.Equal(t, http.StatusOK, loginRR.Code)
	c := refreshCookie(t, loginRR)
	require.NotNil(t, c)

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: c.Value})

	rr := httptest.NewRecorder()
	h.Refresh(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	// Cookie не ротируется: Set-Cookie в ответе refresh отсутствует.
	require.Nil(t, refreshCookie(t, rr))
}

func TestRefresh_NoCookie_401(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	rr := httptest.NewRecorder()
	h.Refresh(rr, httptest.NewRequest(http.MethodGet, "/auth/refresh", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthorized", decodeErr(t, rr).Error.Code)
}

func TestRefresh_TamperedCookie_403(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "tampered.jwt.value"})

	rr := httptest.NewRecorder()
	h.Refresh(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "forbidden", decodeErr(t, rr).Error.Code)
}

func TestLogout_WithCookie_ClearsIt(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "whatever"})

	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "cookie cleared", resp.Message)

	c := refreshCookie(t, rr)
	require.NotNil(t, c)
	require.Empty(t, c.Value)
	require.Equal(t, -1, c.MaxAge)
	require.Equal(t, "/auth", c.Path)
}

// Без cookie logout идемпотентно отвечает 204 без тела.
func TestLogout_NoCookie_204(t *testing.T) {
	t.Parallel()

	h, _, ctrl := newTestHandlers(t)
	defer ctrl.Finish()

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Empty(t, rr.Body.String())
	require.Nil(t, refreshCookie(t, rr))
}
