package mongostore

import (
	"context"
	"time"

	"bookshelf/internal/logger"
	"bookshelf/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	user.Deleted = false

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		logger.Log.Error("Ошибка создания пользователя (mongo)", zap.String("email", user.Email), zap.Error(err))
		return mapErr(err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}, {Key: "deleted", Value: false}})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "deleted", Value: false}})
}

func (r *UserRepository) FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*models.User, error) {
	return r.findOne(ctx, bson.D{
		{Key: "email", Value: email},
		{Key: "password", Value: passwordHash},
		{Key: "deleted", Value: false},
	})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) (*models.User, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "deleted", Value: false}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: passwordHash},
		{Key: "updatedAt", Value: r.now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		logger.Log.Error("Ошибка обновления пароля (mongo)", zap.String("user_id", id), zap.Error(err))
		return nil, mapErr(err)
	}
	return &u, nil
}
