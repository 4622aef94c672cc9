package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bookshelf/internal/handlers"
	"bookshelf/internal/middleware"
	"bookshelf/internal/repository/memory"
	"bookshelf/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu   sync.Mutex
	link string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, _, link string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.link = link
	return nil
}

func (m *captureMailer) token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.link[strings.LastIndex(m.link, "/")+1:]
}

type testServer struct {
	router http.Handler
	mailer *captureMailer
}

func newTestServer(limiter *middleware.RateLimiter) *testServer {
	mailer := &captureMailer{}
	tokens := services.NewTokenService("test-secret")
	authSvc := services.NewAuthService(memory.NewUserRepository(), memory.NewPasswordResetRepository(),
		tokens, mailer, "http://front", 30*time.Minute)
	bookSvc := services.NewBookService(memory.NewBookRepository())

	router := mux.NewRouter()
	InitRoutes(router, Handlers{
		Auth:   handlers.NewAuthHandler(authSvc),
		Books:  handlers.NewBookHandler(bookSvc),
		Health: handlers.NewHealthHandler(nil),
	}, middleware.JWTAuth(tokens, authSvc), limiter)

	return &testServer{router: router, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, out := s.do(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	access := out["access"].(map[string]any)
	return access["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(nil)
	creds := map[string]string{"email": "ann@example.com", "password": "Abc12345!", "firstName": "Ann", "lastName": "Lee"}

	rec, out := s.do(t, http.MethodPost, "/signup", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Signup success", out["message"])
	assert.Equal(t, true, out["status"])
	data := out["data"].(map[string]any)
	assert.Equal(t, "ann@example.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotEmpty(t, data["_id"])

	rec, _ = s.do(t, http.MethodPost, "/signup", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, out = s.do(t, http.MethodPost, "/signup", "", map[string]string{"email": "bob@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["status"])

	rec, out = s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ann@example.com", "password": "Wrong123!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Your password is incorrect or this account doesn't exist.", out["message"])

	rec, out = s.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ann@example.com", "password": "Abc12345!"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login success", out["message"])
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "HttpOnly; Max-Age=3600;")
	token := out["access"].(map[string]any)["token"].(string)

	rec, _ = s.do(t, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, out = s.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logout", out["message"])
	assert.Equal(t, "Authorization=; Max-age=0", rec.Header().Get("Set-Cookie"))
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(nil)
	rec, _ := s.do(t, http.MethodPost, "/signup", "", map[string]string{"email": "ann@example.com", "password": "Abc12345!"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, out := s.do(t, http.MethodPost, "/forgot-password", "", map[string]string{"email": "ann@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "token", out["data"])
	assert.Equal(t, "token generated", out["message"])

	rec, _ = s.do(t, http.MethodPost, "/forgot-password", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	reset := map[string]string{"email": "ann@example.com", "oldPassword": "whatever", "newPassword": "NewPass1!"}

	rec, _ = s.do(t, http.MethodPost, "/reset-password/bad-token", "", reset)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, out = s.do(t, http.MethodPost, "/reset-password/"+s.mailer.token(), "", reset)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "password has been successfully updated", out["message"])

	s.login(t, "ann@example.com", "NewPass1!")
}

func TestBookFlow(t *testing.T) {
	s := newTestServer(nil)
	rec, _ := s.do(t, http.MethodPost, "/signup", "", map[string]string{"email": "ann@example.com", "password": "Abc12345!"})
	require.Equal(t, http.StatusCreated, rec.Code)
	token := s.login(t, "ann@example.com", "Abc12345!")

	rec, _ = s.do(t, http.MethodGet, "/books", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	book := map[string]any{"title": "Dune", "author": "Herbert", "isbn": 111}
	rec, out := s.do(t, http.MethodPost, "/books", token, book)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, out["status"])

	rec, _ = s.do(t, http.MethodPost, "/books", token, book)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/books", token, map[string]any{"title": "No isbn", "author": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = s.do(t, http.MethodGet, "/book/111", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dune", out["book"].(map[string]any)["title"])

	rec, _ = s.do(t, http.MethodGet, "/book/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/book/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = s.do(t, http.MethodPut, "/book/222", token, map[string]any{"title": "Emma"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(222), out["book"].(map[string]any)["isbn"])

	rec, out = s.do(t, http.MethodGet, "/books", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "findAll", out["message"])
	assert.Len(t, out["books"], 2)

	rec, out = s.do(t, http.MethodDelete, "/book/111", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Book was deleted", out["message"])

	rec, _ = s.do(t, http.MethodGet, "/book/111", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(t, http.MethodDelete, "/book/111", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = s.do(t, http.MethodGet, "/books", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["books"], 1)
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(nil)

	rec, out := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.router.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusOK, mrec.Code)
}

func TestPublicRoutesAreRateLimited(t *testing.T) {
	s := newTestServer(middleware.NewRateLimiter(1, 1))
	body := map[string]string{"email": "ann@example.com", "password": "x"}

	rec, _ := s.do(t, http.MethodPost, "/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
