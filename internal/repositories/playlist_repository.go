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

// PlaylistRepository defines the interface for playlist data operations
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID, page models.PageRequest) ([]models.Playlist, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.PlaylistPatch) (*models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddVideo appends videoID only if the playlist is owned by owner and does not
	// hold it yet; otherwise it returns ErrConditionFailed.
	AddVideo(ctx context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error)
	// RemoveVideo pulls videoID only if the playlist is owned by owner and holds it.
	RemoveVideo(ctx context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error)
	PullVideoEverywhere(ctx context.Context, videoID primitive.ObjectID) (int64, error)
}

// MongoPlaylistRepository implements PlaylistRepository for MongoDB
type MongoPlaylistRepository struct {
	collection *mongo.Collection
}

// NewMongoPlaylistRepository creates a new MongoPlaylistRepository
func NewMongoPlaylistRepository(db *mongo.Database) *MongoPlaylistRepository {
	return &MongoPlaylistRepository{collection: db.Collection("playlists")}
}

func (r *MongoPlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	now := time.Now().UTC()
	playlist.ID = primitive.NewObjectID()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, playlist); err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}
	return nil
}

func (r *MongoPlaylistRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	return &playlist, nil
}

func (r *MongoPlaylistRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID, page models.PageRequest) ([]models.Playlist, int64, error) {
	filter := bson.M{"owner": owner}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Offset()).
		SetLimit(int64(page.PageSize))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find playlists: %w", err)
	}
	defer cursor.Close(ctx)

	playlists := []models.Playlist{}
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, 0, fmt.Errorf("decode playlists: %w", err)
	}
	return playlists, total, nil
}

func (r *MongoPlaylistRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.PlaylistPatch) (*models.Playlist, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	playlist, err := r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if errors.Is(err, ErrConditionFailed) {
		return nil, ErrNotFound
	}
	return playlist, err
}

func (r *MongoPlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPlaylistRepository) AddVideo(ctx context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error) {
	filter := bson.M{"_id": id, "owner": owner, "videos": bson.M{"$ne": videoID}}
	update := bson.M{
		"$push": bson.M{"videos": videoID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *MongoPlaylistRepository) RemoveVideo(ctx context.Context, id, owner, videoID primitive.ObjectID) (*models.Playlist, error) {
	filter := bson.M{"_id": id, "owner": owner, "videos": videoID}
	update := bson.M{
		"$pull": bson.M{"videos": videoID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

// PullVideoEverywhere drops a deleted video from every playlist holding it.
func (r *MongoPlaylistRepository) PullVideoEverywhere(ctx context.Context, videoID primitive.ObjectID) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"videos": videoID},
		bson.M{"$pull": bson.M{"videos": videoID}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("pull video from playlists: %w", err)
	}
	return res.ModifiedCount, nil
}

// findOneAndUpdate applies a guarded update. A filter miss is ErrConditionFailed;
// callers re-read to tell a missing playlist from a failed guard.
func (r *MongoPlaylistRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.Playlist, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrConditionFailed
	}
	if err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	return &playlist, nil
}
