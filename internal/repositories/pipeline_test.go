package repositories

import (
	"testing"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stageName(t *testing.T, stage bson.D) string {
	t.Helper()
	require.Len(t, stage, 1)
	return stage[0].Key
}

func TestFeedPipelineShape(t *testing.T) {
	page := models.NewPageRequest(3, 20)
	p := feedPipeline(bson.D{{Key: "is_published", Value: true}}, models.SortSpec{Field: "views", Desc: false}, page)

	require.Len(t, p, 3)
	assert.Equal(t, "$match", stageName(t, p[0]))
	assert.Equal(t, "$sort", stageName(t, p[1]))
	assert.Equal(t, "$facet", stageName(t, p[2]))

	sort := p[1][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "views", Value: 1}, {Key: "_id", Value: 1}}, sort)

	facet := p[2][0].Value.(bson.D)
	require.Len(t, facet, 2)
	items := facet[1].Value.(bson.A)
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(40)}}, items[0])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(20)}}, items[1])
	assert.Equal(t, "$lookup", stageName(t, items[2].(bson.D)))
	assert.Equal(t, "$set", stageName(t, items[3].(bson.D)))
}

func TestFeedPipelineDescendingTieBreak(t *testing.T) {
	p := feedPipeline(bson.D{}, models.DefaultSort, models.NewPageRequest(1, 10))
	sort := p[1][0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, sort)
}

func TestOwnerLookupProjectsOnlyPublicFields(t *testing.T) {
	lookup := ownerLookupStages()[0][0].Value.(bson.D)
	var sub bson.A
	for _, e := range lookup {
		if e.Key == "pipeline" {
			sub = e.Value.(bson.A)
		}
	}
	require.Len(t, sub, 1)
	project := sub[0].(bson.D)[0].Value.(bson.D)

	var fields []string
	for _, e := range project {
		fields = append(fields, e.Key)
	}
	assert.ElementsMatch(t, []string{"_id", "username", "full_name", "avatar"}, fields)
}

func TestVideoMatch(t *testing.T) {
	owner := primitive.NewObjectID()

	assert.Equal(t, bson.D{{Key: "is_published", Value: true}}, videoMatch(models.VideoFilter{}))

	m := videoMatch(models.VideoFilter{Query: "go tutorial", OwnerID: owner, IncludeUnpublished: true})
	require.Len(t, m, 2)
	assert.Equal(t, "$text", m[0].Key)
	assert.Equal(t, bson.E{Key: "owner", Value: owner}, m[1])
}

func TestHistoryUpdateCapsAndFilters(t *testing.T) {
	vid := primitive.NewObjectID()
	now := time.Now()
	p := historyUpdate(vid, 3, now)

	require.Len(t, p, 1)
	set := p[0][0].Value.(bson.D)
	slice := set[0].Value.(bson.D)[0]
	assert.Equal(t, "$slice", slice.Key)

	args := slice.Value.(bson.A)
	assert.Equal(t, 3, args[1])
	concat := args[0].(bson.D)[0].Value.(bson.A)
	assert.Equal(t, bson.A{vid}, concat[0])
	assert.Equal(t, bson.E{Key: "updated_at", Value: now}, set[1])
}
