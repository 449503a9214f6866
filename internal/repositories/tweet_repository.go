package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID, page models.PageRequest) ([]models.TweetView, int64, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Tweet, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoTweetRepository implements TweetRepository for MongoDB
type MongoTweetRepository struct {
	collection *mongo.Collection
}

// NewMongoTweetRepository creates a new MongoTweetRepository
func NewMongoTweetRepository(db *mongo.Database) *MongoTweetRepository {
	return &MongoTweetRepository{collection: db.Collection("tweets")}
}

func (r *MongoTweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	now := time.Now().UTC()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, tweet); err != nil {
		return fmt.Errorf("insert tweet: %w", err)
	}
	return nil
}

func (r *MongoTweetRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find tweet: %w", err)
	}
	return &tweet, nil
}

func (r *MongoTweetRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID, page models.PageRequest) ([]models.TweetView, int64, error) {
	match := bson.D{{Key: "owner", Value: owner}}
	return runFeed[models.TweetView](ctx, r.collection, feedPipeline(match, models.DefaultSort, page))
}

func (r *MongoTweetRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Tweet, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now().UTC()}}

	var tweet models.Tweet
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&tweet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update tweet: %w", err)
	}
	return &tweet, nil
}

func (r *MongoTweetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete tweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
