package repository

import (
	"context"
	"database/sql"

	"bookshelf/internal/logger"
	"bookshelf/internal/models"

	"go.uber.org/zap"
)

type BookRepository struct {
	db DBTX
}

func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `id, title, author, isbn, deleted, deleted_at, created_at, updated_at`

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		b         models.Book
		deletedAt sql.NullTime
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Deleted, &deletedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		b.DeletedAt = &t
	}
	return &b, nil
}

func (r *BookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	logger.Log.Debug("Получение списка книг (repo)")
	books, err := r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE deleted = false`)
	if err != nil {
		logger.Log.Error("Ошибка получения книг (repo)", zap.Error(err))
	}
	return books, err
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn int64) (*models.Book, error) {
	logger.Log.Debug("Получение книги по isbn (repo)", zap.Int64("isbn", isbn))
	return scanBook(r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = $1 AND deleted = false`, isbn))
}

// FindByISBNIncludingDeleted — административная выборка без фильтра deleted.
func (r *BookRepository) FindByISBNIncludingDeleted(ctx context.Context, isbn int64) ([]models.Book, error) {
	return r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1 ORDER BY created_at`, isbn)
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	logger.Log.Info("Создание книги (repo)", zap.Int64("isbn", book.ISBN))
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO books (id, title, author, isbn) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		book.ID, book.Title, book.Author, book.ISBN,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания книги (repo)", zap.Int64("isbn", book.ISBN), zap.Error(err))
		return mapErr(err)
	}
	return nil
}

// Upsert обновляет книгу по isbn или создаёт её, если такой нет.
// Пустые title/author не затирают сохранённые значения.
func (r *BookRepository) Upsert(ctx context.Context, book *models.Book) (*models.Book, error) {
	logger.Log.Info("Upsert книги (repo)", zap.Int64("isbn", book.ISBN))
	query := `
	INSERT INTO books (id, title, author, isbn) VALUES ($1, $2, $3, $4)
	ON CONFLICT (isbn) WHERE deleted = false DO UPDATE SET
		title = COALESCE(NULLIF(EXCLUDED.title, ''), books.title),
		author = COALESCE(NULLIF(EXCLUDED.author, ''), books.author),
		updated_at = now()
	RETURNING ` + bookColumns
	b, err := scanBook(r.db.QueryRowContext(ctx, query, book.ID, book.Title, book.Author, book.ISBN))
	if err != nil {
		logger.Log.Error("Ошибка upsert книги (repo)", zap.Int64("isbn", book.ISBN), zap.Error(err))
		return nil, err
	}
	return b, nil
}

// SoftDelete помечает книгу удалённой, строка остаётся в таблице.
func (r *BookRepository) SoftDelete(ctx context.Context, isbn int64) (*models.Book, error) {
	logger.Log.Info("Удаление книги (repo)", zap.Int64("isbn", isbn))
	query := `
	UPDATE books SET deleted = true, deleted_at = now(), updated_at = now()
	WHERE isbn = $1 AND deleted = false
	RETURNING ` + bookColumns
	return scanBook(r.db.QueryRowContext(ctx, query, isbn))
}
