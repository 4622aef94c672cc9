package app

import (
	"context"
	"fmt"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/db"
	"bookshelf/internal/handlers"
	"bookshelf/internal/logger"
	"bookshelf/internal/middleware"
	"bookshelf/internal/repository"
	"bookshelf/internal/repository/memory"
	"bookshelf/internal/repository/mongostore"
	"bookshelf/internal/routes"
	"bookshelf/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type stores struct {
	users       services.UserRepo
	resetTokens services.ResetTokenRepo
	books       services.BookRepo
	ping        func(ctx context.Context) error
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := db.NewPostgresConnection(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		sqlDB := db.OpenSQL(pool)
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, err
		}
		return &stores{
			users:       repository.NewUserRepository(sqlDB),
			resetTokens: repository.NewPasswordResetRepository(sqlDB),
			books:       repository.NewBookRepository(sqlDB),
			ping:        pool.Ping,
			close: func() {
				_ = sqlDB.Close()
				pool.Close()
			},
		}, nil

	case config.StorageMongo:
		client, database, err := db.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &stores{
			users:       mongostore.NewUserRepository(database),
			resetTokens: mongostore.NewPasswordResetRepository(database),
			books:       mongostore.NewBookRepository(database),
			ping:        func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = client.Disconnect(ctx)
			},
		}, nil

	case config.StorageMemory:
		return &stores{
			users:       memory.NewUserRepository(),
			resetTokens: memory.NewPasswordResetRepository(),
			books:       memory.NewBookRepository(),
			close:       func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

// InitApp собирает хранилище, сервисы и маршруты. cleanup останавливает
// воркеры и закрывает соединения.
func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, func(), error) {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Log.Info("Хранилище готово", zap.String("storage", cfg.Storage))

	// Сервисы
	tokenService := services.NewTokenService(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(st.users, st.resetTokens, tokenService, emailService, cfg.FrontendURL, cfg.PasswordResetTTL())
	bookService := services.NewBookService(st.books)

	// Фоновые задачи живут до cleanup
	bgCtx, cancel := context.WithCancel(context.Background())
	workers := emailService.StartWorkers(bgCtx, cfg.EmailWorkerCount())

	rps, burst := cfg.RateLimit()
	limiter := middleware.NewRateLimiter(rps, burst)
	limiter.StartCleanup(bgCtx, 5*time.Minute, 30*time.Minute)

	router := mux.NewRouter()
	routes.InitRoutes(router, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		Books:  handlers.NewBookHandler(bookService),
		Health: handlers.NewHealthHandler(st.ping),
	}, middleware.JWTAuth(tokenService, authService), limiter)

	cleanup := func() {
		cancel()
		workers.Wait()
		st.close()
		logger.Log.Info("Ресурсы приложения освобождены")
	}
	return router, cleanup, nil
}
