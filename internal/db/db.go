package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

func NewPostgresConnection(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return NewPostgresPool(ctx, cfg.GetDSN())
}

func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Log.Info("Подключение к Postgres установлено")
	return pool, nil
}

// OpenSQL отдаёт *sql.DB поверх того же пула — для репозиториев и goose.
func OpenSQL(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

func closeQuietly(name string, fn func() error) {
	if err := fn(); err != nil {
		logger.Log.Warn("Ошибка закрытия соединения", zap.String("conn", name), zap.Error(err))
	}
}
