// Package mongostore — хранилище пользователей, токенов сброса и книг в MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/internal/logger"
	"bookshelf/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection       = "users"
	resetTokensCollection = "password_reset_tokens"
	booksCollection       = "books"
)

var activeOnly = bson.D{{Key: "deleted", Value: false}}

// EnsureIndexes создаёт уникальные индексы по email и isbn среди неудалённых записей.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
		}
	}

	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, unique("email")); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := db.Collection(booksCollection).Indexes().CreateOne(ctx, unique("isbn")); err != nil {
		return fmt.Errorf("books index: %w", err)
	}
	_, err := db.Collection(resetTokensCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "tokenHash", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("reset tokens index: %w", err)
	}

	logger.Log.Info("Индексы MongoDB готовы")
	return nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(repository.ErrDuplicate, err)
	default:
		return err
	}
}
