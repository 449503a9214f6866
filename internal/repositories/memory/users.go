package memory

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.createLocked(user)
	return nil
}

func (r *UserRepository) createLocked(user *models.User) {
	now := r.s.now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.WatchHistory == nil {
		user.WatchHistory = []primitive.ObjectID{}
	}
	stored := *user
	stored.WatchHistory = cloneIDs(user.WatchHistory)
	r.s.users[user.ID] = &stored
}

func (r *UserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *u
	out.WatchHistory = cloneIDs(u.WatchHistory)
	return &out, nil
}

func (r *UserRepository) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.OwnerSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[primitive.ObjectID]models.OwnerSummary, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = u.ToSummary()
		}
	}
	return out, nil
}

func (r *UserRepository) UpsertFirebaseUser(_ context.Context, uid, email, name, avatar string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.FirebaseUID == uid {
			u.UpdatedAt = r.s.now()
			out := *u
			out.WatchHistory = cloneIDs(u.WatchHistory)
			return &out, nil
		}
	}
	user := &models.User{FirebaseUID: uid, Email: email, Username: name, FullName: name, Avatar: avatar}
	r.createLocked(user)
	return user, nil
}

func (r *UserRepository) RecordView(_ context.Context, userID, videoID primitive.ObjectID, limit int) ([]primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	u.WatchHistory = moveToFront(u.WatchHistory, videoID, limit)
	u.UpdatedAt = r.s.now()
	return cloneIDs(u.WatchHistory), nil
}

func (r *UserRepository) ClearHistory(_ context.Context, userID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.WatchHistory = []primitive.ObjectID{}
	u.UpdatedAt = r.s.now()
	return nil
}
