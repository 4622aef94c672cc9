package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/logger"
	"bookshelf/internal/metrics"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"
	"bookshelf/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrAuthFailed — одна и та же ошибка для неизвестного email и неверного пароля.
var ErrAuthFailed = apperrors.NewUnauthorized("Your password is incorrect or this account doesn't exist.")

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*models.User, error)
}

type ResetTokenRepo interface {
	Create(ctx context.Context, t *models.PasswordResetToken) error
	FindValid(ctx context.Context, userID, tokenHash string, now time.Time) (*models.PasswordResetToken, error)
}

type AuthService struct {
	users       UserRepo
	resetTokens ResetTokenRepo
	tokens      *TokenService
	mailer      EmailSender
	frontendURL string
	resetTTL    time.Duration
	now         func() time.Time
}

func NewAuthService(
	users UserRepo,
	resetTokens ResetTokenRepo,
	tokens *TokenService,
	mailer EmailSender,
	frontendURL string,
	resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:       users,
		resetTokens: resetTokens,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		resetTTL:    resetTTL,
		now:         time.Now,
	}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginResult struct {
	User      *models.User
	Cookie    string
	TokenData TokenData
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	log := logger.WithCtx(ctx)
	email := normalizeEmail(in.Email)
	log.Info("Регистрация пользователя (service)", zap.String("email", email))

	if email == "" || in.Password == "" {
		return nil, apperrors.NewInvalidInput("userData is empty")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		log.Warn("Email уже зарегистрирован", zap.String("email", email))
		metrics.RecordAuth("signup", false)
		return nil, apperrors.NewConflict(fmt.Sprintf("This email %s already exists", email))
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		log.Error("Ошибка проверки email", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to check email")
	}

	if !utils.ValidatePassword(in.Password) {
		metrics.RecordAuth("signup", false)
		return nil, apperrors.NewInvalidInput(utils.PasswordPolicyMessage)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	// гонка двух регистраций ловится уникальным индексом и уходит как 500
	if err := s.users.Create(ctx, user); err != nil {
		log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to create user")
	}

	metrics.RecordAuth("signup", true)
	log.Info("Пользователь зарегистрирован (service)", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.WithCtx(ctx)
	email = normalizeEmail(email)
	log.Info("Попытка входа (service)", zap.String("email", email))

	if email == "" || password == "" {
		return nil, apperrors.NewInvalidInput("userData is empty")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Пользователь не найден (service)", zap.String("email", email))
			metrics.RecordAuth("login", false)
			return nil, ErrAuthFailed
		}
		log.Error("Ошибка поиска пользователя", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to load user")
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn("Неверный пароль (service)", zap.String("email", email))
		metrics.RecordAuth("login", false)
		return nil, ErrAuthFailed
	}

	td, err := s.tokens.Issue(user)
	if err != nil {
		log.Error("Ошибка генерации токена", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to issue token")
	}

	metrics.RecordAuth("login", true)
	log.Info("Вход выполнен (service)", zap.String("user_id", user.ID))
	return &LoginResult{User: user, Cookie: s.tokens.Cookie(td), TokenData: td}, nil
}

// Logout ничего не отзывает: токен живёт до истечения срока.
func (s *AuthService) Logout(ctx context.Context, user *models.User) (*models.User, error) {
	log := logger.WithCtx(ctx)

	if user == nil || user.Email == "" {
		return nil, apperrors.NewInvalidInput("userData is empty")
	}
	log.Info("Выход пользователя (service)", zap.String("email", user.Email))

	found, err := s.users.FindByEmailAndPasswordHash(ctx, user.Email, user.PasswordHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordAuth("logout", false)
			return nil, apperrors.NewConflict(fmt.Sprintf("This email %s was not found", user.Email))
		}
		log.Error("Ошибка поиска пользователя при выходе", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to load user")
	}

	metrics.RecordAuth("logout", true)
	return found, nil
}

// UserByID — для middleware: пользователь из токена должен существовать и не быть удалён.
func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, apperrors.Internal(err, "failed to load user")
	}
	return u, nil
}

func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}
