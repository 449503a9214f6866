package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository stores likes and subscriptions as (actor, target) rows.
type RelationRepository interface {
	// Toggle deletes the row for key if it exists, otherwise inserts it.
	Toggle(ctx context.Context, key models.RelationKey) (*models.ToggleResult, error)
	// Engagement aggregates the rows of many targets in one query. Targets with
	// no rows are absent from the map.
	Engagement(ctx context.Context, viewerID string, targetType models.TargetType, targetIDs []string) (map[string]models.Engagement, error)
	ListTargets(ctx context.Context, actorID string, targetType models.TargetType, page models.PageRequest) ([]string, int64, error)
	ListActors(ctx context.Context, targetType models.TargetType, targetID string, page models.PageRequest) ([]string, int64, error)
	CountByTargets(ctx context.Context, targetType models.TargetType, targetIDs []string) (int64, error)
	CountByActor(ctx context.Context, actorID string, targetType models.TargetType) (int64, error)
	DeleteByTargets(ctx context.Context, targetType models.TargetType, targetIDs []string) (int64, error)
}

// PostgresRelationRepository implements RelationRepository with gorm.
type PostgresRelationRepository struct {
	db *gorm.DB
}

// NewPostgresRelationRepository creates a new PostgresRelationRepository
func NewPostgresRelationRepository(db *gorm.DB) *PostgresRelationRepository {
	return &PostgresRelationRepository{db: db}
}

// AutoMigrate creates the relations table with its unique key.
func (r *PostgresRelationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&models.Relation{})
}

func byKey(tx *gorm.DB, key models.RelationKey) *gorm.DB {
	return tx.Where("actor_id = ? AND target_type = ? AND target_id = ?", key.ActorID, key.TargetType, key.TargetID)
}

func (r *PostgresRelationRepository) Toggle(ctx context.Context, key models.RelationKey) (*models.ToggleResult, error) {
	var result *models.ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Relation
		err := byKey(tx, key).Take(&existing).Error
		if err == nil {
			// A concurrent toggle may already have removed it; the outcome is the same.
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result = &models.ToggleResult{State: models.ToggleRemoved, Kind: key.TargetType.Kind(), Relation: &existing}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		rel := models.Relation{ActorID: key.ActorID, TargetType: key.TargetType, TargetID: key.TargetID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rel)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost an insert race: report the row that won.
			if err := byKey(tx, key).Take(&rel).Error; err != nil {
				return err
			}
		}
		result = &models.ToggleResult{State: models.ToggleCreated, Kind: key.TargetType.Kind(), Relation: &rel}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("toggle %s relation: %w", key.TargetType, err)
	}
	return result, nil
}

type engagementRow struct {
	TargetID  string
	Total     int64
	ViewerHas int
}

func (r *PostgresRelationRepository) Engagement(ctx context.Context, viewerID string, targetType models.TargetType, targetIDs []string) (map[string]models.Engagement, error) {
	out := make(map[string]models.Engagement, len(targetIDs))
	if len(targetIDs) == 0 {
		return out, nil
	}

	var rows []engagementRow
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Select("target_id, COUNT(*) AS total, MAX(CASE WHEN actor_id = ? THEN 1 ELSE 0 END) AS viewer_has", viewerID).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate %s relations: %w", targetType, err)
	}
	for _, row := range rows {
		out[row.TargetID] = models.Engagement{Count: row.Total, ViewerHas: viewerID != "" && row.ViewerHas == 1}
	}
	return out, nil
}

// ListTargets returns the ids an actor is related to, most recent first.
func (r *PostgresRelationRepository) ListTargets(ctx context.Context, actorID string, targetType models.TargetType, page models.PageRequest) ([]string, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Relation{}).Where("actor_id = ? AND target_type = ?", actorID, targetType)
	return pluckPage(q, "target_id", page)
}

// ListActors returns who is related to a target, most recent first.
func (r *PostgresRelationRepository) ListActors(ctx context.Context, targetType models.TargetType, targetID string, page models.PageRequest) ([]string, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Relation{}).Where("target_type = ? AND target_id = ?", targetType, targetID)
	return pluckPage(q, "actor_id", page)
}

func pluckPage(q *gorm.DB, column string, page models.PageRequest) ([]string, int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count relations: %w", err)
	}

	ids := []string{}
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(int(page.Offset())).
		Limit(page.PageSize).
		Pluck(column, &ids).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list relations: %w", err)
	}
	return ids, total, nil
}

func (r *PostgresRelationRepository) CountByTargets(ctx context.Context, targetType models.TargetType, targetIDs []string) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count %s relations: %w", targetType, err)
	}
	return count, nil
}

func (r *PostgresRelationRepository) CountByActor(ctx context.Context, actorID string, targetType models.TargetType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("actor_id = ? AND target_type = ?", actorID, targetType).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count %s relations: %w", targetType, err)
	}
	return count, nil
}

func (r *PostgresRelationRepository) DeleteByTargets(ctx context.Context, targetType models.TargetType, targetIDs []string) (int64, error) {
	if len(targetIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Delete(&models.Relation{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete %s relations: %w", targetType, res.Error)
	}
	return res.RowsAffected, nil
}
