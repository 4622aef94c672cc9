package services

import (
	"context"
	"testing"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/models"
	"bookshelf/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookService() *BookService {
	return NewBookService(memory.NewBookRepository())
}

func TestParseISBN(t *testing.T) {
	n, err := ParseISBN(" 111 ")
	require.NoError(t, err)
	assert.Equal(t, int64(111), n)

	for _, raw := range []string{"", "abc", "-5", "0", "1.5"} {
		_, err := ParseISBN(raw)
		requireCode(t, err, apperrors.CodeInvalidInput)
	}
}

func TestBookService_CreateDuplicate(t *testing.T) {
	svc := newBookService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBookInput{Title: "Dune", Author: "Herbert", ISBN: 111})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateBookInput{Title: "Dune", Author: "Herbert", ISBN: 111})
	requireCode(t, err, apperrors.CodeConflict)

	books, err := svc.List(ctx)
	require.NoError(t, err)
	count := 0
	for _, b := range books {
		if b.ISBN == 111 {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBookService_CreateValidation(t *testing.T) {
	svc := newBookService()

	_, err := svc.Create(context.Background(), CreateBookInput{})
	requireCode(t, err, apperrors.CodeInvalidInput)

	_, err = svc.Create(context.Background(), CreateBookInput{Title: "No isbn"})
	requireCode(t, err, apperrors.CodeInvalidInput)
}

func TestBookService_DeleteThenGet(t *testing.T) {
	svc := newBookService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateBookInput{Title: "Dune", Author: "Herbert", ISBN: 111})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, "111")
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)

	_, err = svc.GetByISBN(ctx, "111")
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = svc.Delete(ctx, "111")
	requireCode(t, err, apperrors.CodeNotFound)

	all, err := svc.GetByISBNIncludingDeleted(ctx, 111)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Deleted)
}

func TestBookService_UpdateUpserts(t *testing.T) {
	svc := newBookService()
	ctx := context.Background()

	created, err := svc.Update(ctx, models.Book{ISBN: 222, Title: "Emma"})
	require.NoError(t, err)
	assert.Equal(t, int64(222), created.ISBN)

	got, err := svc.GetByISBN(ctx, "222")
	require.NoError(t, err)
	assert.Equal(t, "Emma", got.Title)

	updated, err := svc.Update(ctx, models.Book{ISBN: 222, Author: "Austen"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Emma", updated.Title)
	assert.Equal(t, "Austen", updated.Author)

	_, err = svc.Update(ctx, models.Book{})
	requireCode(t, err, apperrors.CodeInvalidInput)
}
