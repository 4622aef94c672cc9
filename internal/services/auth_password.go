package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"
	"bookshelf/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resetTokenBytes = 32

var errResetToken = apperrors.NewConflict("Invalid or expired password reset token")

type ResetPasswordInput struct {
	Email       string
	OldPassword string
	NewPassword string
}

func newResetToken() (string, error) {
	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ForgotPassword создаёт токен сброса и ставит письмо в очередь.
// Не сообщает, существует ли email: ошибки хранилища и почты только логируются.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.WithCtx(ctx)
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.NewInvalidInput("email is empty")
	}
	log.Info("Запрос на сброс пароля", zap.String("email", email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		log.Warn("Не удалось найти пользователя по email при запросе сброса", zap.String("email", email), zap.Error(err))
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		log.Error("Ошибка генерации токена для сброса", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}

	expires := s.now().UTC().Add(s.resetTTL)
	rec := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: expires,
	}
	if err := s.resetTokens.Create(ctx, rec); err != nil {
		log.Error("Ошибка сохранения токена сброса пароля", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link, expires); err != nil {
		log.Error("Ошибка отправки письма для сброса пароля", zap.String("user_id", user.ID), zap.Error(err))
	}

	metrics.RecordAuth("forgot_password", true)
	log.Info("Токен сброса пароля создан",
		zap.String("user_id", user.ID),
		zap.Time("expires_at", expires),
	)
	return nil
}

// ResetPassword проверяет токен и ставит новый пароль. Старый пароль не сверяется.
func (s *AuthService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) (*models.User, error) {
	log := logger.WithCtx(ctx)
	log.Info("Попытка сброса пароля по токену")

	if strings.TrimSpace(token) == "" {
		return nil, apperrors.NewInvalidInput("userToken is empty")
	}
	email := normalizeEmail(in.Email)
	if email == "" && in.NewPassword == "" && in.OldPassword == "" {
		return nil, apperrors.NewInvalidInput("userData is empty")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordAuth("reset_password", false)
			return nil, errResetToken
		}
		log.Error("Ошибка поиска пользователя", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to load user")
	}

	if _, err := s.resetTokens.FindValid(ctx, user.ID, hashResetToken(token), s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Неверный или просроченный токен при сбросе пароля", zap.String("user_id", user.ID))
			metrics.RecordAuth("reset_password", false)
			return nil, errResetToken
		}
		log.Error("Ошибка поиска токена сброса", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to load reset token")
	}

	if !utils.ValidatePassword(in.NewPassword) {
		metrics.RecordAuth("reset_password", false)
		return nil, apperrors.NewInvalidInput(utils.PasswordPolicyMessage)
	}

	hashed, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		log.Error("Ошибка генерации хеша пароля", zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	updated, err := s.users.UpdatePasswordHash(ctx, user.ID, hashed)
	if err != nil {
		log.Error("Ошибка обновления пароля пользователя", zap.String("user_id", user.ID), zap.Error(err))
		return nil, apperrors.Internal(err, "failed to update password")
	}

	metrics.RecordAuth("reset_password", true)
	log.Info("Пароль успешно сброшен", zap.String("user_id", user.ID))
	return updated, nil
}
