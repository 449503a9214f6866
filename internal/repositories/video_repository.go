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

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	GetView(ctx context.Context, id primitive.ObjectID) (*models.VideoView, error)
	List(ctx context.Context, filter models.VideoFilter, sort models.SortSpec, page models.PageRequest) ([]models.VideoView, int64, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.VideoView, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error)
	TogglePublish(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error)
	OwnerTotals(ctx context.Context, owner primitive.ObjectID) (videos, views int64, err error)
}

// MongoVideoRepository implements VideoRepository for MongoDB
type MongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new MongoVideoRepository
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{collection: db.Collection("videos")}
}

func (r *MongoVideoRepository) Create(ctx context.Context, video *models.Video) error {
	now := time.Now().UTC()
	video.ID = primitive.NewObjectID()
	video.Views = 0
	video.CreatedAt = now
	video.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, video); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (r *MongoVideoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &video, nil
}

// GetView loads one video with its owner summary joined.
func (r *MongoVideoRepository) GetView(ctx context.Context, id primitive.ObjectID) (*models.VideoView, error) {
	views, err := joinedByIDs[models.VideoView](ctx, r.collection, []primitive.ObjectID{id})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *MongoVideoRepository) List(ctx context.Context, filter models.VideoFilter, sort models.SortSpec, page models.PageRequest) ([]models.VideoView, int64, error) {
	return runFeed[models.VideoView](ctx, r.collection, feedPipeline(videoMatch(filter), sort, page))
}

func (r *MongoVideoRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.VideoView, error) {
	return joinedByIDs[models.VideoView](ctx, r.collection, ids)
}

func (r *MongoVideoRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Thumbnail != nil {
		set["thumbnail"] = *patch.Thumbnail
	}
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// TogglePublish flips is_published server-side so concurrent toggles never lose a flip.
func (r *MongoVideoRepository) TogglePublish(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_published", Value: bson.D{{Key: "$not", Value: bson.A{"$is_published"}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *MongoVideoRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update interface{}) (*models.Video, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video models.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}
	return &video, nil
}

func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoVideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoVideoRepository) IDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("find owner videos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode owner videos: %w", err)
	}
	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// OwnerTotals counts a channel's videos and sums their views.
func (r *MongoVideoRepository) OwnerTotals(ctx context.Context, owner primitive.ObjectID) (int64, int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "owner", Value: owner}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "videos", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: "$views"}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate owner totals: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Videos int64 `bson:"videos"`
		Views  int64 `bson:"views"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return 0, 0, fmt.Errorf("decode owner totals: %w", err)
	}
	if len(totals) == 0 {
		return 0, 0, nil
	}
	return totals[0].Videos, totals[0].Views, nil
}
