package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/logger"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errBookNotFound = apperrors.NewNotFound("Book doesn't exist")

type BookRepo interface {
	List(ctx context.Context) ([]models.Book, error)
	FindByISBN(ctx context.Context, isbn int64) (*models.Book, error)
	FindByISBNIncludingDeleted(ctx context.Context, isbn int64) ([]models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Upsert(ctx context.Context, book *models.Book) (*models.Book, error)
	SoftDelete(ctx context.Context, isbn int64) (*models.Book, error)
}

type BookService struct {
	repo BookRepo
}

func NewBookService(repo BookRepo) *BookService {
	return &BookService{repo: repo}
}

type CreateBookInput struct {
	Title  string
	Author string
	ISBN   int64
}

// ParseISBN разбирает isbn из пути запроса.
func ParseISBN(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.NewInvalidInput("BookId is empty")
	}
	isbn, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || isbn <= 0 {
		return 0, apperrors.NewInvalidInput("BookId must be a positive number")
	}
	return isbn, nil
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list books")
	}
	return books, nil
}

func (s *BookService) GetByISBN(ctx context.Context, rawISBN string) (*models.Book, error) {
	isbn, err := ParseISBN(rawISBN)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.FindByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errBookNotFound
		}
		return nil, apperrors.Internal(err, "failed to load book")
	}
	return b, nil
}

func (s *BookService) Create(ctx context.Context, in CreateBookInput) (*models.Book, error) {
	log := logger.WithCtx(ctx)
	if in == (CreateBookInput{}) {
		return nil, apperrors.NewInvalidInput("bookData is empty")
	}
	if in.ISBN <= 0 {
		return nil, apperrors.NewInvalidInput("isbn must be a positive number")
	}
	log.Info("Создание книги (service)", zap.Int64("isbn", in.ISBN))

	_, err := s.repo.FindByISBN(ctx, in.ISBN)
	switch {
	case err == nil:
		return nil, apperrors.NewConflict(fmt.Sprintf("This Book isbn: %d already exists", in.ISBN))
	case !errors.Is(err, repository.ErrNotFound):
		log.Error("Ошибка проверки isbn", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to check isbn")
	}

	book := &models.Book{
		ID:     uuid.NewString(),
		Title:  strings.TrimSpace(in.Title),
		Author: strings.TrimSpace(in.Author),
		ISBN:   in.ISBN,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		log.Error("Ошибка создания книги", zap.Error(err))
		return nil, apperrors.Internal(err, "failed to create book")
	}
	return book, nil
}

// Update — upsert по isbn: книги нет, значит будет создана.
func (s *BookService) Update(ctx context.Context, book models.Book) (*models.Book, error) {
	if book.ISBN == 0 && book.Title == "" && book.Author == "" {
		return nil, apperrors.NewInvalidInput("bookData is empty")
	}
	if book.ISBN <= 0 {
		return nil, apperrors.NewInvalidInput("isbn must be a positive number")
	}
	logger.WithCtx(ctx).Info("Обновление книги (service)", zap.Int64("isbn", book.ISBN))

	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	updated, err := s.repo.Upsert(ctx, &book)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errBookNotFound
		}
		return nil, apperrors.Internal(err, "failed to update book")
	}
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, rawISBN string) (*models.Book, error) {
	isbn, err := ParseISBN(rawISBN)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Удаление книги (service)", zap.Int64("isbn", isbn))

	b, err := s.repo.SoftDelete(ctx, isbn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errBookNotFound
		}
		return nil, apperrors.Internal(err, "failed to delete book")
	}
	return b, nil
}

// GetByISBNIncludingDeleted — служебная выборка, по HTTP не доступна.
func (s *BookService) GetByISBNIncludingDeleted(ctx context.Context, isbn int64) ([]models.Book, error) {
	books, err := s.repo.FindByISBNIncludingDeleted(ctx, isbn)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load books")
	}
	return books, nil
}
