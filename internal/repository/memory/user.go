// Package memory — хранилище в памяти процесса (STORAGE=memory и тесты).
package memory

import (
	"context"
	"sync"
	"time"

	"bookshelf/internal/models"
	"bookshelf/internal/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// active возвращает индекс неудалённого пользователя, подходящего под match, или -1.
func (r *UserRepository) active(match func(u *models.User) bool) int {
	for i := range r.users {
		if !r.users[i].Deleted && match(&r.users[i]) {
			return i
		}
	}
	return -1
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active(func(u *models.User) bool { return u.Email == user.Email }) >= 0 {
		return repository.ErrDuplicate
	}

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users = append(r.users, *user)
	return nil
}

func (r *UserRepository) find(match func(u *models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.active(match)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	u := r.users[i]
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *UserRepository) FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email && u.PasswordHash == passwordHash })
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.active(func(u *models.User) bool { return u.ID == id })
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	r.users[i].PasswordHash = passwordHash
	r.users[i].UpdatedAt = time.Now().UTC()
	u := r.users[i]
	return &u, nil
}

// CountByEmailIncludingDeleted — сколько записей с этим email, включая удалённые.
func (r *UserRepository) CountByEmailIncludingDeleted(ctx context.Context, email string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if u.Email == email {
			n++
		}
	}
	return n, nil
}
