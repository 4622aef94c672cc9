package services

import (
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenTTL = time.Hour

var ErrInvalidToken = apperrors.NewUnauthorized("Wrong authentication token")

type TokenData struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type Claims struct {
	UserID string
	Email  string
}

type tokenClaims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет access-токены (HS256, 1 час).
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: accessTokenTTL, now: time.Now}
}

func (s *TokenService) Issue(user *models.User) (TokenData, error) {
	now := s.now()
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return TokenData{}, fmt.Errorf("sign token: %w", err)
	}
	return TokenData{Token: signed, ExpiresIn: int64(s.ttl / time.Second)}, nil
}

func (s *TokenService) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{},
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || c.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: c.UserID, Email: c.Email}, nil
}

func (s *TokenService) Cookie(td TokenData) string {
	return fmt.Sprintf("Authorization=%s; HttpOnly; Max-Age=%d;", td.Token, td.ExpiresIn)
}

func (s *TokenService) ClearCookie() string {
	return "Authorization=; Max-age=0"
}

// IsInvalidToken — ошибка проверки токена, а не что-то иное.
func IsInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
