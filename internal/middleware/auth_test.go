package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookshelf/internal/models"
	"bookshelf/internal/reqctx"
	"bookshelf/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[string]*models.User

func (s stubUsers) UserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s[id]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return u, nil
}

func protected(t *testing.T, tokens *services.TokenService, users stubUsers) http.Handler {
	t.Helper()
	return JWTAuth(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := reqctx.GetUser(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(u.ID))
	}))
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Status)
	return body.Message
}

func TestJWTAuth(t *testing.T) {
	tokens := services.NewTokenService("secret")
	user := &models.User{ID: "u1", Email: "a@b.c"}
	users := stubUsers{"u1": user}
	h := protected(t, tokens, users)

	td, err := tokens.Issue(user)
	require.NoError(t, err)
	ghost, err := tokens.Issue(&models.User{ID: "ghost"})
	require.NoError(t, err)

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication token missing", decodeMessage(t, rec))
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Wrong authentication token", decodeMessage(t, rec))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.AddCookie(&http.Cookie{Name: "Authorization", Value: td.Token})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Authorization", "Bearer "+td.Token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user gone", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.Header.Set("Authorization", "Bearer "+ghost.Token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
