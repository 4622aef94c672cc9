package mongostore

import (
	"context"
	"time"

	"bookshelf/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type PasswordResetRepository struct {
	coll *mongo.Collection
}

func NewPasswordResetRepository(db *mongo.Database) *PasswordResetRepository {
	return &PasswordResetRepository{coll: db.Collection(resetTokensCollection)}
}

func (r *PasswordResetRepository) Create(ctx context.Context, t *models.PasswordResetToken) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, t)
	return mapErr(err)
}

func (r *PasswordResetRepository) FindValid(ctx context.Context, userID, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "tokenHash", Value: tokenHash},
		{Key: "expiresAt", Value: bson.D{{Key: "$gt", Value: now}}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var t models.PasswordResetToken
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&t); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}
