// Package http собирает HTTP-поверхность notebook-backend: chi-роутер,
// мидлвары и регистрацию REST-маршрутов.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Chathura-Ranasinghe/notebook-backend/internal/http/handlers"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/http/middleware"
	"github.com/Chathura-Ranasinghe/notebook-backend/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	RefreshTTL     time.Duration
	AllowedOrigins []string
	LoginPerMinute int
	// Ready — readiness-проба для /healthz; nil означает «всегда готов».
	Ready func() bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// CORS: allow-list источников из конфигурации + куки (credentials).
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Зависимости хендлеров.
	h := handlers.New(svc, opts.RefreshTTL)

	registerRoutes(root, h, svc, opts)

	// Единый JSON-ответ на неизвестные маршруты.
	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"404 Not Found"}`))
	})

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service, opts Options) {
	// auth: refresh/logout работают по cookie, access-токен не требуется.
	r.Route("/auth", func(r chi.Router) {
		if opts.LoginPerMinute > 0 {
			// Ограничиваем перебор паролей: N попыток входа в минуту с одного IP.
			r.With(httprate.LimitByIP(opts.LoginPerMinute, time.Minute)).Post("/", h.Login)
		} else {
			r.Post("/", h.Login)
		}
		r.Get("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
	})

	// CRUD: только с валидным access-токеном.
	protected := middleware.Authenticate(svc)

	r.Route("/users", func(r chi.Router) {
		r.Use(protected)
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Patch("/", h.UpdateUser)
		r.Delete("/", h.DeleteUser)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Use(protected)
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Patch("/", h.UpdateNote)
		r.Delete("/", h.DeleteNote)
	})

	// Служебные эндпойнты.
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready == nil || opts.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	r.Handle("/metrics", promhttp.Handler())
}
