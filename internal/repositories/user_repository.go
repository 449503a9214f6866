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

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.OwnerSummary, error)
	UpsertFirebaseUser(ctx context.Context, uid, email, name, avatar string) (*models.User, error)
	RecordView(ctx context.Context, userID, videoID primitive.ObjectID, limit int) ([]primitive.ObjectID, error)
	ClearHistory(ctx context.Context, userID primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Summaries loads the public profile of each id that exists.
func (r *MongoUserRepository) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.OwnerSummary, error) {
	out := make(map[primitive.ObjectID]models.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1, "full_name": 1, "avatar": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find user summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.OwnerSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode user summaries: %w", err)
	}
	for _, s := range summaries {
		out[s.ID] = s
	}
	return out, nil
}

// UpsertFirebaseUser returns the user linked to a Firebase UID, creating it on first sign-in.
func (r *MongoUserRepository) UpsertFirebaseUser(ctx context.Context, uid, email, name, avatar string) (*models.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"firebase_uid":  uid,
			"email":         email,
			"username":      name,
			"full_name":     name,
			"avatar":        avatar,
			"watch_history": bson.A{},
			"created_at":    now,
		},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"firebase_uid": uid}, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("upsert firebase user: %w", err)
	}
	return &user, nil
}

// RecordView moves videoID to the front of the user's history and returns the new history.
func (r *MongoUserRepository) RecordView(ctx context.Context, userID, videoID primitive.ObjectID, limit int) ([]primitive.ObjectID, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"watch_history": 1})

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, historyUpdate(videoID, limit, time.Now().UTC()), opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}
	return user.WatchHistory, nil
}

func (r *MongoUserRepository) ClearHistory(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"watch_history": bson.A{}, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
