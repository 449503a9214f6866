package memory

import (
	"context"
	"sort"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TweetRepository struct{ s *Store }

func (r *TweetRepository) Create(_ context.Context, tweet *models.Tweet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	stored := *tweet
	r.s.tweets[tweet.ID] = &stored
	return nil
}

func (r *TweetRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *t
	return &out, nil
}

func (r *TweetRepository) ListByOwner(_ context.Context, owner primitive.ObjectID, page models.PageRequest) ([]models.TweetView, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Tweet{}
	for _, t := range r.s.tweets {
		if t.Owner == owner {
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})

	views := make([]models.TweetView, 0, page.PageSize)
	for _, t := range paginate(matched, page) {
		views = append(views, models.TweetView{
			ID:        t.ID,
			Content:   t.Content,
			Owner:     r.s.summaryLocked(t.Owner),
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	return views, int64(len(matched)), nil
}

func (r *TweetRepository) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Tweet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	t.Content = content
	t.UpdatedAt = r.s.now()
	out := *t
	return &out, nil
}

func (r *TweetRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.tweets, id)
	return nil
}
