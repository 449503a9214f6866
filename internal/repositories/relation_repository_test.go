package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type RelationRepositorySuite struct {
	suite.Suite
	db   *gorm.DB
	repo *PostgresRelationRepository
	ctx  context.Context
}

func TestRelationRepositorySuite(t *testing.T) {
	suite.Run(t, new(RelationRepositorySuite))
}

// SetupTest gives every test its own in-memory database.
func (s *RelationRepositorySuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.db = db
	s.repo = NewPostgresRelationRepository(db)
	s.Require().NoError(s.repo.AutoMigrate())
	s.ctx = context.Background()
}

func (s *RelationRepositorySuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *RelationRepositorySuite) rowCount(key models.RelationKey) int64 {
	var n int64
	s.Require().NoError(byKey(s.db.Model(&models.Relation{}), key).Count(&n).Error)
	return n
}

func (s *RelationRepositorySuite) TestToggleAlternates() {
	key := models.RelationKey{ActorID: "u1", TargetType: models.TargetVideo, TargetID: "v1"}

	for i := 0; i < 3; i++ {
		res, err := s.repo.Toggle(s.ctx, key)
		s.Require().NoError(err)
		s.Equal(models.ToggleCreated, res.State)
		s.Equal(models.KindLike, res.Kind)
		s.Equal(int64(1), s.rowCount(key))

		res, err = s.repo.Toggle(s.ctx, key)
		s.Require().NoError(err)
		s.Equal(models.ToggleRemoved, res.State)
		s.Equal(int64(0), s.rowCount(key))
	}
}

func (s *RelationRepositorySuite) TestChannelToggleIsSubscription() {
	res, err := s.repo.Toggle(s.ctx, models.RelationKey{ActorID: "u1", TargetType: models.TargetChannel, TargetID: "u2"})
	s.Require().NoError(err)
	s.Equal(models.KindSubscription, res.Kind)
	s.Require().NotNil(res.Relation)
	s.Equal("u2", res.Relation.TargetID)
}

func (s *RelationRepositorySuite) TestUniqueKeyRejectsDuplicates() {
	rel := models.Relation{ActorID: "u1", TargetType: models.TargetVideo, TargetID: "v1"}
	s.Require().NoError(s.db.Create(&rel).Error)

	dup := models.Relation{ActorID: "u1", TargetType: models.TargetVideo, TargetID: "v1"}
	s.Error(s.db.Create(&dup).Error)
}

func (s *RelationRepositorySuite) TestConcurrentTogglesLeaveAtMostOneRow() {
	key := models.RelationKey{ActorID: "u1", TargetType: models.TargetComment, TargetID: "c1"}

	for _, n := range []int{7, 8} {
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.repo.Toggle(s.ctx, key)
				assert.NoError(s.T(), err)
			}()
		}
		wg.Wait()

		count := s.rowCount(key)
		s.LessOrEqual(count, int64(1))
		s.Equal(int64(n%2), count, "n=%d", n)

		// reset
		s.Require().NoError(byKey(s.db, key).Delete(&models.Relation{}).Error)
	}
}

func (s *RelationRepositorySuite) TestEngagementForViewerAndAnonymous() {
	for _, actor := range []string{"u1", "u2", "u3"} {
		_, err := s.repo.Toggle(s.ctx, models.RelationKey{ActorID: actor, TargetType: models.TargetVideo, TargetID: "v1"})
		s.Require().NoError(err)
	}
	// same ids under another target type must not leak into video counts
	_, err := s.repo.Toggle(s.ctx, models.RelationKey{ActorID: "u4", TargetType: models.TargetComment, TargetID: "v1"})
	s.Require().NoError(err)

	ids := []string{"v1", "v2"}

	got, err := s.repo.Engagement(s.ctx, "u2", models.TargetVideo, ids)
	s.Require().NoError(err)
	s.Equal(models.Engagement{Count: 3, ViewerHas: true}, got["v1"])
	_, ok := got["v2"]
	s.False(ok)

	got, err = s.repo.Engagement(s.ctx, "", models.TargetVideo, ids)
	s.Require().NoError(err)
	s.Equal(models.Engagement{Count: 3, ViewerHas: false}, got["v1"])

	got, err = s.repo.Engagement(s.ctx, "u9", models.TargetVideo, ids)
	s.Require().NoError(err)
	s.False(got["v1"].ViewerHas)
}

func (s *RelationRepositorySuite) TestListingsAndCounts() {
	for _, target := range []string{"a", "b", "c"} {
		_, err := s.repo.Toggle(s.ctx, models.RelationKey{ActorID: "u1", TargetType: models.TargetChannel, TargetID: target})
		s.Require().NoError(err)
	}
	_, err := s.repo.Toggle(s.ctx, models.RelationKey{ActorID: "u2", TargetType: models.TargetChannel, TargetID: "a"})
	s.Require().NoError(err)

	ids, total, err := s.repo.ListTargets(s.ctx, "u1", models.TargetChannel, models.NewPageRequest(1, 2))
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal([]string{"c", "b"}, ids)

	ids, _, err = s.repo.ListTargets(s.ctx, "u1", models.TargetChannel, models.NewPageRequest(2, 2))
	s.Require().NoError(err)
	s.Equal([]string{"a"}, ids)

	actors, total, err := s.repo.ListActors(s.ctx, models.TargetChannel, "a", models.NewPageRequest(1, 10))
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.ElementsMatch([]string{"u1", "u2"}, actors)

	n, err := s.repo.CountByActor(s.ctx, "u1", models.TargetChannel)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	n, err = s.repo.CountByTargets(s.ctx, models.TargetChannel, []string{"a", "b"})
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	deleted, err := s.repo.DeleteByTargets(s.ctx, models.TargetChannel, []string{"a"})
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)
}

func TestEngagementEmptyInput(t *testing.T) {
	repo := NewPostgresRelationRepository(nil)
	got, err := repo.Engagement(context.Background(), "u1", models.TargetVideo, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
