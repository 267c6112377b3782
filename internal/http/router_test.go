package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/config"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/models"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/storage"
	"github.com/Chathura-Ranasinghe/notebook-backend/mocks"
	"github.com/google/uuid"
)

func testRouter(t *testing.T, opts Options) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, config.AuthConfig{
		AccessSecret:    "router-access-secret",
		RefreshSecret:   "router-refresh-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "notebook-backend",
	})

	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}

	return NewRouter(svc, opts), st
}

// login проходит полный цикл POST /auth и возвращает access-токен.
func login(t *testing.T, router http.Handler, st *mocks.MockStorage, username, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	st.EXPECT().UserByUsername(gomock.Any(), username).Return(&models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Roles:        []string{"Employee"},
		Active:       true,
	}, nil)

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:40000"

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRouter_UnknownRoute_JSON404(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"message":"404 Not Found"}`, rr.Body.String())
}

func TestRouter_Livez(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestRouter_Healthz_ReadyProbe(t *testing.T) {
	t.Parallel()

	ready := false
	router, _ := testRouter(t, Options{Ready: func() bool { return ready }})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	ready = true
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_Metrics_Exposed(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	require.Contains(t, string(body), "go_goroutines")
}

func TestRouter_ProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{})

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodPost, "/users"},
		{http.MethodPatch, "/users"},
		{http.MethodDelete, "/users"},
		{http.MethodGet, "/notes"},
		{http.MethodPost, "/notes"},
		{http.MethodPatch, "/notes"},
		{http.MethodDelete, "/notes"},
	} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(route.method, route.path, nil))
		require.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
	}
}

func TestRouter_ProtectedRoute_GarbageToken_403(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

// Полный путь: login -> access-токен -> защищённый CRUD.
func TestRouter_LoginThenListUsers(t *testing.T) {
	t.Parallel()

	router, st := testRouter(t, Options{})

	token := login(t, router, st, "dan", "Abcdef1!")

	st.EXPECT().ListUsers(gomock.Any()).Return([]models.User{
		{ID: uuid.New(), Username: "dan", Roles: []string{"Employee"}, Active: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"username":"dan"`)
}

// Refresh по cookie, выставленной login: маршруты /auth живут без access-токена.
func TestRouter_RefreshViaCookie(t *testing.T) {
	t.Parallel()

	router, st := testRouter(t, Options{})

	hash, err := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Username:     "dan",
		PasswordHash: string(hash),
		Roles:        []string{"Employee"},
		Active:       true,
	}
	st.EXPECT().UserByUsername(gomock.Any(), "dan").Return(user, nil).Times(2)

	loginReq := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":"dan","password":"Abcdef1!"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRR := httptest.NewRecorder()
	router.ServeHTTP(loginRR, loginReq)
	require.Equal(t, http.StatusOK, loginRR.Code)

	var jwtCookie *http.Cookie
	for _, c := range loginRR.Result().Cookies() {
		if c.Name == "jwt" {
			jwtCookie = c
		}
	}
	require.NotNil(t, jwtCookie)

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: jwtCookie.Value})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "accessToken")
}

// Лимит логинов per-IP: N+1-я попытка получает 429.
func TestRouter_LoginRateLimited(t *testing.T) {
	t.Parallel()

	router, st := testRouter(t, Options{LoginPerMinute: 2})

	st.EXPECT().UserByUsername(gomock.Any(), "ghost").
		Return(nil, storage.ErrNotFound).Times(2)

	doLogin := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"username":"ghost","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.2.3:55555"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusUnauthorized, doLogin().Code)
	require.Equal(t, http.StatusUnauthorized, doLogin().Code)
	require.Equal(t, http.StatusTooManyRequests, doLogin().Code)
}

// CORS: preflight с разрешённого origin получает заголовки с credentials.
func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{
		AllowedOrigins: []string{"https://notes.example.com"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/auth", nil)
	req.Header.Set("Origin", "https://notes.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, "https://notes.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_CORSDisallowedOrigin(t *testing.T) {
	t.Parallel()

	router, _ := testRouter(t, Options{
		AllowedOrigins: []string{"https://notes.example.com"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/auth", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
