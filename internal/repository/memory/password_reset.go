package memory

import (
	"context"
	"sync"
	"time"

	"bookshelf/internal/models"
	"bookshelf/internal/repository"
)

type PasswordResetRepository struct {
	mu     sync.RWMutex
	tokens []models.PasswordResetToken
}

func NewPasswordResetRepository() *PasswordResetRepository {
	return &PasswordResetRepository{}
}

func (r *PasswordResetRepository) Create(ctx context.Context, t *models.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	r.tokens = append(r.tokens, *t)
	return nil
}

func (r *PasswordResetRepository) FindValid(ctx context.Context, userID, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *models.PasswordResetToken
	for i := range r.tokens {
		t := r.tokens[i]
		if t.UserID != userID || t.TokenHash != tokenHash || !t.ExpiresAt.After(now) {
			continue
		}
		if found == nil || t.CreatedAt.After(found.CreatedAt) {
			found = &t
		}
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}
