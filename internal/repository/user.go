package repository

import (
	"context"
	"database/sql"

	"bookshelf/internal/logger"
	"bookshelf/internal/models"

	"go.uber.org/zap"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, deleted, deleted_at, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		deletedAt sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Deleted,
		&deletedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, mapErr(err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		u.DeletedAt = &t
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("email", user.Email))
	query := `
	INSERT INTO users (id, email, password_hash, first_name, last_name)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания пользователя (repo)", zap.String("email", user.Email), zap.Error(err))
		return mapErr(err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted = false`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.String("user_id", id))
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted = false`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email и хешу пароля (repo)", zap.String("email", email))
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND password_hash = $2 AND deleted = false`
	return scanUser(r.db.QueryRowContext(ctx, query, email, passwordHash))
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*models.User, error) {
	logger.Log.Info("Обновление пароля пользователя (repo)", zap.String("user_id", id))
	query := `
	UPDATE users SET password_hash = $1, updated_at = now()
	WHERE id = $2 AND deleted = false
	RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, query, passwordHash, id))
	if err != nil {
		logger.Log.Error("Ошибка обновления пароля (repo)", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// CountByEmailIncludingDeleted — для админки и тестов, фильтр deleted не применяется.
func (r *UserRepository) CountByEmailIncludingDeleted(ctx context.Context, email string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE email = $1`, email).Scan(&n)
	return n, mapErr(err)
}
