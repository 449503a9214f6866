package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "users"

// sortDirection maps a SortSpec direction to the Mongo sort value.
func sortDirection(desc bool) int {
	if desc {
		return -1
	}
	return 1
}

// ownerLookupStages replaces the owner id with the owner's public summary. The
// lookup sub-pipeline is an allowlist: nothing but these fields leaves users.
func ownerLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "_id", Value: 1},
					{Key: "username", Value: 1},
					{Key: "full_name", Value: 1},
					{Key: "avatar", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "owner", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$owner", 0}}}},
		}}},
	}
}

// feedPipeline builds match, sort, then one $facet that yields both the total
// and the requested page. Sorting always ends on _id so pages never overlap.
func feedPipeline(match bson.D, sort models.SortSpec, page models.PageRequest) mongo.Pipeline {
	dir := sortDirection(sort.Desc)
	sortStage := bson.D{{Key: sort.Field, Value: dir}}
	if sort.Field != "_id" {
		sortStage = append(sortStage, bson.E{Key: "_id", Value: dir})
	}

	items := bson.A{
		bson.D{{Key: "$skip", Value: page.Offset()}},
		bson.D{{Key: "$limit", Value: int64(page.PageSize)}},
	}
	for _, stage := range ownerLookupStages() {
		items = append(items, stage)
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sortStage}},
		{{Key: "$facet", Value: bson.D{
			{Key: "metadata", Value: bson.A{bson.D{{Key: "$count", Value: "total"}}}},
			{Key: "items", Value: items},
		}}},
	}
}

type facetResult[T any] struct {
	Metadata []struct {
		Total int64 `bson:"total"`
	} `bson:"metadata"`
	Items []T `bson:"items"`
}

// runFeed executes a feedPipeline and decodes its single facet document.
func runFeed[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, int64, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var out []facetResult[T]
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode %s feed: %w", coll.Name(), err)
	}
	if len(out) == 0 {
		return []T{}, 0, nil
	}

	var total int64
	if len(out[0].Metadata) > 0 {
		total = out[0].Metadata[0].Total
	}
	items := out[0].Items
	if items == nil {
		items = []T{}
	}
	return items, total, nil
}

// joinedByIDs loads documents by id with their owner joined, in no particular order.
func joinedByIDs[T any](ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}}},
	}
	for _, stage := range ownerLookupStages() {
		pipeline = append(pipeline, stage)
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s by ids: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return items, nil
}

// historyUpdate moves videoID to the front of watch_history, drops any older
// occurrence and truncates to limit, all inside one pipeline update.
func historyUpdate(videoID primitive.ObjectID, limit int, now time.Time) mongo.Pipeline {
	withoutVideo := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$watch_history", bson.A{}}}}},
		{Key: "as", Value: "v"},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$v", videoID}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "watch_history", Value: bson.D{{Key: "$slice", Value: bson.A{
				bson.D{{Key: "$concatArrays", Value: bson.A{bson.A{videoID}, withoutVideo}}},
				limit,
			}}}},
			{Key: "updated_at", Value: now},
		}}},
	}
}

// videoMatch translates a VideoFilter into the first $match stage. $text must
// be in the first stage of a pipeline.
func videoMatch(filter models.VideoFilter) bson.D {
	match := bson.D{}
	if filter.Query != "" {
		match = append(match, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: filter.Query}}})
	}
	if !filter.OwnerID.IsZero() {
		match = append(match, bson.E{Key: "owner", Value: filter.OwnerID})
	}
	if !filter.IncludeUnpublished {
		match = append(match, bson.E{Key: "is_published", Value: true})
	}
	return match
}
