package repository

import (
	"context"
	"time"

	"bookshelf/internal/logger"
	"bookshelf/internal/models"

	"go.uber.org/zap"
)

type PasswordResetRepository struct {
	db DBTX
}

func NewPasswordResetRepository(db DBTX) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, t *models.PasswordResetToken) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt,
	).Scan(&t.CreatedAt)
	if err != nil {
		logger.Log.Error("Create reset token failed", zap.Error(err), zap.String("user_id", t.UserID))
		return mapErr(err)
	}
	return nil
}

// FindValid ищет неистёкший токен пользователя по хешу.
func (r *PasswordResetRepository) FindValid(ctx context.Context, userID, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_reset_tokens
		WHERE user_id = $1
		  AND token_hash = $2
		  AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, tokenHash, now)

	var t models.PasswordResetToken
	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}
