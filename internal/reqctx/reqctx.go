// internal/reqctx/reqctx.go
package reqctx

import (
	"context"

	"bookshelf/internal/models"
)

type key int

const (
	keyRequestID key = iota
	keyUser
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

// WithUser кладёт в контекст пользователя, прошедшего JWT-проверку.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, keyUser, u)
}

func GetUser(ctx context.Context) (*models.User, bool) {
	v, ok := ctx.Value(keyUser).(*models.User)
	return v, ok && v != nil
}

func GetUserID(ctx context.Context) (string, bool) {
	u, ok := GetUser(ctx)
	if !ok {
		return "", false
	}
	return u.ID, true
}
