package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"bookshelf/internal/db"
	"bookshelf/internal/models"
	"bookshelf/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, mapErr(dup), repository.ErrDuplicate)

	other := errors.New("network")
	assert.Equal(t, other, mapErr(other))
}

func has(d bson.D, key string) bool {
	for _, e := range d {
		if e.Key == key {
			return true
		}
	}
	return false
}

func lookup(t *testing.T, d bson.D, key string) any {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("key %q not found", key)
	return nil
}

func TestUpsertDoc_KeepsEmptyFieldsOutOfSet(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := upsertDoc(&models.Book{ID: "b1", Author: "Herbert", ISBN: 111}, now)

	set := lookup(t, doc, "$set").(bson.D)
	onInsert := lookup(t, doc, "$setOnInsert").(bson.D)

	assert.Equal(t, "Herbert", lookup(t, set, "author"))
	assert.False(t, has(set, "title"))
	assert.Equal(t, "", lookup(t, onInsert, "title"))
	assert.Equal(t, "b1", lookup(t, onInsert, "_id"))
	assert.Equal(t, now, lookup(t, set, "updatedAt"))
}

func TestUpsertDoc_GeneratesID(t *testing.T) {
	doc := upsertDoc(&models.Book{Title: "Dune", Author: "Herbert", ISBN: 111}, time.Now())
	onInsert := lookup(t, doc, "$setOnInsert").(bson.D)

	id, ok := lookup(t, onInsert, "_id").(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

// Нужен живой MongoDB: MONGO_TEST_URI=mongodb://localhost:27017
func TestBookRepository_Mongo(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if testing.Short() || uri == "" {
		t.Skip("integration test: set MONGO_TEST_URI and run without -short")
	}

	ctx := context.Background()
	client, database, err := db.NewMongoConnection(ctx, uri, "bookshelf_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	require.NoError(t, EnsureIndexes(ctx, database))

	books := NewBookRepository(database)
	require.NoError(t, books.Create(ctx, &models.Book{ID: "b1", Title: "Dune", Author: "Herbert", ISBN: 111}))
	err = books.Create(ctx, &models.Book{ID: "b2", Title: "Dune", Author: "Herbert", ISBN: 111})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	upd, err := books.Upsert(ctx, &models.Book{Author: "F. Herbert", ISBN: 111})
	require.NoError(t, err)
	assert.Equal(t, "b1", upd.ID)
	assert.Equal(t, "Dune", upd.Title)

	created, err := books.Upsert(ctx, &models.Book{Title: "Emma", ISBN: 222})
	require.NoError(t, err)
	assert.Equal(t, int64(222), created.ISBN)

	_, err = books.SoftDelete(ctx, 111)
	require.NoError(t, err)
	_, err = books.FindByISBN(ctx, 111)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := books.FindByISBNIncludingDeleted(ctx, 111)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	users := NewUserRepository(database)
	require.NoError(t, users.Create(ctx, &models.User{ID: "u1", Email: "a@b.c", PasswordHash: "h"}))
	err = users.Create(ctx, &models.User{ID: "u2", Email: "a@b.c", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	u, err := users.UpdatePasswordHash(ctx, "u1", "h2")
	require.NoError(t, err)
	assert.Equal(t, "h2", u.PasswordHash)

	tokens := NewPasswordResetRepository(database)
	now := time.Now().UTC()
	require.NoError(t, tokens.Create(ctx, &models.PasswordResetToken{ID: "t1", UserID: "u1", TokenHash: "x", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &models.PasswordResetToken{ID: "t2", UserID: "u1", TokenHash: "old", ExpiresAt: now.Add(-time.Hour)}))

	_, err = tokens.FindValid(ctx, "u1", "x", now)
	assert.NoError(t, err)
	_, err = tokens.FindValid(ctx, "u1", "old", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
