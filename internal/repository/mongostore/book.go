package mongostore

import (
	"context"
	"time"

	"bookshelf/internal/logger"
	"bookshelf/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type BookRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{coll: db.Collection(booksCollection), now: time.Now}
}

func (r *BookRepository) find(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]models.Book, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	books := make([]models.Book, 0)
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	books, err := r.find(ctx, activeOnly)
	if err != nil {
		logger.Log.Error("Ошибка получения книг (mongo)", zap.Error(err))
	}
	return books, err
}

func (r *BookRepository) FindByISBN(ctx context.Context, isbn int64) (*models.Book, error) {
	var b models.Book
	err := r.coll.FindOne(ctx, bson.D{{Key: "isbn", Value: isbn}, {Key: "deleted", Value: false}}).Decode(&b)
	if err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *BookRepository) FindByISBNIncludingDeleted(ctx context.Context, isbn int64) ([]models.Book, error) {
	return r.find(ctx, bson.D{{Key: "isbn", Value: isbn}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	now := r.now().UTC()
	book.CreatedAt, book.UpdatedAt = now, now
	book.Deleted = false

	if _, err := r.coll.InsertOne(ctx, book); err != nil {
		logger.Log.Error("Ошибка создания книги (mongo)", zap.Int64("isbn", book.ISBN), zap.Error(err))
		return mapErr(err)
	}
	return nil
}

// upsertDoc собирает $set/$setOnInsert: пустые title/author не трогают сохранённые значения.
func upsertDoc(book *models.Book, now time.Time) bson.D {
	set := bson.D{{Key: "updatedAt", Value: now}}
	onInsert := bson.D{{Key: "createdAt", Value: now}}

	id := book.ID
	if id == "" {
		id = uuid.NewString()
	}
	onInsert = append(onInsert, bson.E{Key: "_id", Value: id})

	for _, f := range []struct {
		key, val string
	}{{"title", book.Title}, {"author", book.Author}} {
		if f.val != "" {
			set = append(set, bson.E{Key: f.key, Value: f.val})
		} else {
			onInsert = append(onInsert, bson.E{Key: f.key, Value: ""})
		}
	}

	return bson.D{
		{Key: "$set", Value: set},
		{Key: "$setOnInsert", Value: onInsert},
	}
}

func (r *BookRepository) Upsert(ctx context.Context, book *models.Book) (*models.Book, error) {
	filter := bson.D{{Key: "isbn", Value: book.ISBN}, {Key: "deleted", Value: false}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var b models.Book
	if err := r.coll.FindOneAndUpdate(ctx, filter, upsertDoc(book, r.now().UTC()), opts).Decode(&b); err != nil {
		logger.Log.Error("Ошибка upsert книги (mongo)", zap.Int64("isbn", book.ISBN), zap.Error(err))
		return nil, mapErr(err)
	}
	return &b, nil
}

func (r *BookRepository) SoftDelete(ctx context.Context, isbn int64) (*models.Book, error) {
	now := r.now().UTC()
	filter := bson.D{{Key: "isbn", Value: isbn}, {Key: "deleted", Value: false}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "deleted", Value: true},
		{Key: "deletedAt", Value: now},
		{Key: "updatedAt", Value: now},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Book
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}
