package middleware

import (
	"context"
	"net/http"
	"strings"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/logger"
	"bookshelf/internal/models"
	"bookshelf/internal/reqctx"
	"bookshelf/internal/services"
	"bookshelf/internal/utils/helpers"

	"go.uber.org/zap"
)

const authCookie = "Authorization"

var errTokenMissing = apperrors.NewUnauthorized("Authentication token missing")

// UserLoader находит неудалённого пользователя по id из токена.
type UserLoader interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type TokenVerifier interface {
	Verify(token string) (services.Claims, error)
}

// extractToken берёт токен из cookie Authorization, иначе из заголовка Bearer.
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(authCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func JWTAuth(tokens TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			token := extractToken(r)
			if token == "" {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				helpers.WriteError(w, errTokenMissing)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				helpers.WriteError(w, services.ErrInvalidToken)
				return
			}

			user, err := users.UserByID(r.Context(), claims.UserID)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: пользователь из токена не найден",
					zap.String("user_id", claims.UserID), zap.Error(err))
				helpers.WriteError(w, err)
				return
			}

			ctx := reqctx.WithUser(r.Context(), user)
			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
