package memory

import (
	"cmp"
	"context"
	"sort"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VideoRepository struct{ s *Store }

func (r *VideoRepository) Create(_ context.Context, video *models.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	video.ID = primitive.NewObjectID()
	video.Views = 0
	video.CreatedAt = now
	video.UpdatedAt = now
	stored := *video
	r.s.videos[video.ID] = &stored
	return nil
}

func (r *VideoRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *v
	return &out, nil
}

func (r *VideoRepository) GetView(_ context.Context, id primitive.ObjectID) (*models.VideoView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	view := models.NewVideoView(v, r.s.summaryLocked(v.Owner))
	return &view, nil
}

func (r *VideoRepository) List(_ context.Context, filter models.VideoFilter, spec models.SortSpec, page models.PageRequest) ([]models.VideoView, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(filter.Query))
	matched := make([]*models.Video, 0, len(r.s.videos))
	for _, v := range r.s.videos {
		if !filter.IncludeUnpublished && !v.IsPublished {
			continue
		}
		if !filter.OwnerID.IsZero() && v.Owner != filter.OwnerID {
			continue
		}
		if len(terms) > 0 && !matchesAny(v, terms) {
			continue
		}
		matched = append(matched, v)
	}

	sort.Slice(matched, func(i, j int) bool {
		c := compareVideoField(matched[i], matched[j], spec.Field)
		if c == 0 {
			c = compareIDs(matched[i].ID, matched[j].ID)
		}
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})

	views := make([]models.VideoView, 0, page.PageSize)
	for _, v := range paginate(matched, page) {
		views = append(views, models.NewVideoView(v, r.s.summaryLocked(v.Owner)))
	}
	return views, int64(len(matched)), nil
}

// matchesAny mimics a text index: any term found in title or description.
func matchesAny(v *models.Video, terms []string) bool {
	text := strings.ToLower(v.Title + " " + v.Description)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func compareVideoField(a, b *models.Video, field string) int {
	switch field {
	case "views":
		return cmp.Compare(a.Views, b.Views)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "duration":
		return cmp.Compare(a.Duration, b.Duration)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *VideoRepository) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.VideoView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := make([]models.VideoView, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.s.videos[id]; ok {
			views = append(views, models.NewVideoView(v, r.s.summaryLocked(v.Owner)))
		}
	}
	return views, nil
}

func (r *VideoRepository) Update(_ context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Title != nil {
		v.Title = *patch.Title
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Thumbnail != nil {
		v.Thumbnail = *patch.Thumbnail
	}
	v.UpdatedAt = r.s.now()
	out := *v
	return &out, nil
}

func (r *VideoRepository) TogglePublish(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = r.s.now()
	out := *v
	return &out, nil
}

func (r *VideoRepository) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	v.Views++
	return nil
}

func (r *VideoRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.videos, id)
	return nil
}

func (r *VideoRepository) IDsByOwner(_ context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []primitive.ObjectID{}
	for id, v := range r.s.videos {
		if v.Owner == owner {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *VideoRepository) OwnerTotals(_ context.Context, owner primitive.ObjectID) (int64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var videos, views int64
	for _, v := range r.s.videos {
		if v.Owner == owner {
			videos++
			views += v.Views
		}
	}
	return videos, views, nil
}
