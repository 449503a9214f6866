package memory

import (
	"context"
	"sort"

	"github.com/anonto42/vidtube/backend/internal/models"
)

type RelationRepository struct{ s *Store }

func (r *RelationRepository) Toggle(_ context.Context, key models.RelationKey) (*models.ToggleResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.relations[key]; ok {
		delete(r.s.relations, key)
		out := *existing
		return &models.ToggleResult{State: models.ToggleRemoved, Kind: key.TargetType.Kind(), Relation: &out}, nil
	}

	r.s.nextRelationID++
	rel := &models.Relation{
		ID:         r.s.nextRelationID,
		ActorID:    key.ActorID,
		TargetType: key.TargetType,
		TargetID:   key.TargetID,
		CreatedAt:  r.s.now(),
	}
	r.s.relations[key] = rel
	out := *rel
	return &models.ToggleResult{State: models.ToggleCreated, Kind: key.TargetType.Kind(), Relation: &out}, nil
}

func (r *RelationRepository) Engagement(_ context.Context, viewerID string, targetType models.TargetType, targetIDs []string) (map[string]models.Engagement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}
	out := make(map[string]models.Engagement, len(targetIDs))
	for key := range r.s.relations {
		if key.TargetType != targetType || !wanted[key.TargetID] {
			continue
		}
		e := out[key.TargetID]
		e.Count++
		if viewerID != "" && key.ActorID == viewerID {
			e.ViewerHas = true
		}
		out[key.TargetID] = e
	}
	return out, nil
}

// listLocked returns matching rows most recent first.
func (r *RelationRepository) listLocked(match func(models.RelationKey) bool) []*models.Relation {
	rows := []*models.Relation{}
	for key, rel := range r.s.relations {
		if match(key) {
			rows = append(rows, rel)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows
}

func (r *RelationRepository) ListTargets(_ context.Context, actorID string, targetType models.TargetType, page models.PageRequest) ([]string, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.listLocked(func(k models.RelationKey) bool {
		return k.ActorID == actorID && k.TargetType == targetType
	})
	ids := []string{}
	for _, rel := range paginate(rows, page) {
		ids = append(ids, rel.TargetID)
	}
	return ids, int64(len(rows)), nil
}

func (r *RelationRepository) ListActors(_ context.Context, targetType models.TargetType, targetID string, page models.PageRequest) ([]string, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.listLocked(func(k models.RelationKey) bool {
		return k.TargetType == targetType && k.TargetID == targetID
	})
	ids := []string{}
	for _, rel := range paginate(rows, page) {
		ids = append(ids, rel.ActorID)
	}
	return ids, int64(len(rows)), nil
}

func (r *RelationRepository) CountByTargets(_ context.Context, targetType models.TargetType, targetIDs []string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}
	var n int64
	for key := range r.s.relations {
		if key.TargetType == targetType && wanted[key.TargetID] {
			n++
		}
	}
	return n, nil
}

func (r *RelationRepository) CountByActor(_ context.Context, actorID string, targetType models.TargetType) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for key := range r.s.relations {
		if key.ActorID == actorID && key.TargetType == targetType {
			n++
		}
	}
	return n, nil
}

func (r *RelationRepository) DeleteByTargets(_ context.Context, targetType models.TargetType, targetIDs []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		wanted[id] = true
	}
	var n int64
	for key := range r.s.relations {
		if key.TargetType == targetType && wanted[key.TargetID] {
			delete(r.s.relations, key)
			n++
		}
	}
	return n, nil
}
