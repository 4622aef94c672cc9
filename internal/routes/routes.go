package routes

import (
	"net/http"

	"bookshelf/internal/handlers"
	"bookshelf/internal/metrics"
	"bookshelf/internal/middleware"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Books  *handlers.BookHandler
	Health *handlers.HealthHandler
}

func InitRoutes(
	router *mux.Router,
	h Handlers,
	auth func(http.Handler) http.Handler,
	limiter *middleware.RateLimiter,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging, middleware.Metrics)

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// --- Публичные маршруты (с лимитом по IP) ---
	public := router.NewRoute().Subrouter()
	if limiter != nil {
		public.Use(limiter.Middleware)
	}
	public.HandleFunc("/signup", h.Auth.Signup).Methods(http.MethodPost)
	public.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	public.HandleFunc("/forgot-password", h.Auth.ForgotPassword).Methods(http.MethodPost)
	public.HandleFunc("/reset-password/{token}", h.Auth.ResetPassword).Methods(http.MethodPost)

	// --- Защищённые JWT ---
	protected := router.NewRoute().Subrouter()
	protected.Use(auth)

	protected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)

	protected.HandleFunc("/books", h.Books.GetBooks).Methods(http.MethodGet)
	protected.HandleFunc("/books", h.Books.CreateBook).Methods(http.MethodPost)
	protected.HandleFunc("/book/{id}", h.Books.GetBook).Methods(http.MethodGet)
	protected.HandleFunc("/book/{id}", h.Books.UpdateBook).Methods(http.MethodPut)
	protected.HandleFunc("/book/{id}", h.Books.DeleteBook).Methods(http.MethodDelete)
}
