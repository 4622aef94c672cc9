package memory

import (
	"context"
	"sync"
	"time"

	"bookshelf/internal/models"
	"bookshelf/internal/repository"

	"github.com/google/uuid"
)

type BookRepository struct {
	mu    sync.RWMutex
	books []models.Book
}

func NewBookRepository() *BookRepository {
	return &BookRepository{}
}

func (r *BookRepository) activeIndex(isbn int64) int {
	for i := range r.books {
		if !r.books[i].Deleted && r.books[i].ISBN == isbn {
			return i
		}
	}
	return -1
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		if !b.Deleted {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn int64) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.activeIndex(isbn)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	b := r.books[i]
	return &b, nil
}

func (r *BookRepository) FindByISBNIncludingDeleted(ctx context.Context, isbn int64) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Book, 0)
	for _, b := range r.books {
		if b.ISBN == isbn {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeIndex(book.ISBN) >= 0 {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	book.CreatedAt, book.UpdatedAt = now, now
	r.books = append(r.books, *book)
	return nil
}

func (r *BookRepository) Upsert(ctx context.Context, book *models.Book) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if i := r.activeIndex(book.ISBN); i >= 0 {
		if book.Title != "" {
			r.books[i].Title = book.Title
		}
		if book.Author != "" {
			r.books[i].Author = book.Author
		}
		r.books[i].UpdatedAt = now
		b := r.books[i]
		return &b, nil
	}

	b := models.Book{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.books = append(r.books, b)
	return &b, nil
}

func (r *BookRepository) SoftDelete(ctx context.Context, isbn int64) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.activeIndex(isbn)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	now := time.Now().UTC()
	r.books[i].Deleted = true
	r.books[i].DeletedAt = &now
	r.books[i].UpdatedAt = now
	b := r.books[i]
	return &b, nil
}
