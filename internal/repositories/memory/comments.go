package memory

import (
	"context"
	"sort"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	stored := *comment
	r.s.comments[comment.ID] = &stored
	return nil
}

func (r *CommentRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *CommentRepository) ListByVideo(_ context.Context, videoID primitive.ObjectID, page models.PageRequest) ([]models.CommentView, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := []*models.Comment{}
	for _, c := range r.s.comments {
		if c.Video == videoID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return newestFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})

	views := make([]models.CommentView, 0, page.PageSize)
	for _, c := range paginate(matched, page) {
		views = append(views, models.CommentView{
			ID:        c.ID,
			Content:   c.Content,
			Video:     c.Video,
			Owner:     r.s.summaryLocked(c.Owner),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return views, int64(len(matched)), nil
}

func (r *CommentRepository) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = r.s.now()
	out := *c
	return &out, nil
}

func (r *CommentRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *CommentRepository) IDsByVideo(_ context.Context, videoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []primitive.ObjectID{}
	for id, c := range r.s.comments {
		if c.Video == videoID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *CommentRepository) DeleteByVideo(_ context.Context, videoID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, c := range r.s.comments {
		if c.Video == videoID {
			delete(r.s.comments, id)
			n++
		}
	}
	return n, nil
}
