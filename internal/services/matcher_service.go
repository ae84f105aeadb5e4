package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"weddingverse/internal/config"
	"weddingverse/internal/database"
	"weddingverse/internal/models"
)

const (
	criterionField = "field"
	criterionEvent = "event"
	criterionColor = "color"
)

// Criterion is one active matching indicator derived from the preference set.
type Criterion struct {
	Kind  string // field, event or color
	Key   string // preference key, event name or color value
	Value string // requested value for field criteria
	Path  string // catalog storage path the indicator tests
}

// catalogReader is the subset of mongo.Collection the matcher reads through.
type catalogReader interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// MatcherService scores catalog images against a preference set and returns
// the highest-scoring tier. Ranking failures degrade to a default sample and
// are never surfaced to the caller.
type MatcherService struct {
	catalog catalogReader
	cache   *CatalogCache
}

// NewMatcherService creates a new matcher service reading from the given
// image catalog collection
func NewMatcherService(mongoDB *database.MongoDB, catalogCache *CatalogCache, collection string) *MatcherService {
	if collection == "" {
		collection = database.CollectionImageCatalog
	}
	return &MatcherService{
		catalog: mongoDB.Collection(collection),
		cache:   catalogCache,
	}
}

// BuildCriteria derives the active indicator list from a preference set.
// Events and colors are normalized (comma-split, trimmed, deduplicated)
// before indicators are built, so a repeated value never counts twice.
func BuildCriteria(req *models.VisionBoardRequest) []Criterion {
	var criteria []Criterion

	for _, key := range config.FieldOrder {
		value := req.Field(key)
		if value == "" {
			continue
		}
		criteria = append(criteria, Criterion{
			Kind:  criterionField,
			Key:   key,
			Value: value,
			Path:  config.FieldMap[key],
		})
	}

	for _, ev := range models.NormalizeList(req.Events) {
		criteria = append(criteria, Criterion{
			Kind: criterionEvent,
			Key:  ev,
			Path: "data.Events",
		})
	}

	for _, clr := range models.NormalizeList(req.Colors) {
		criteria = append(criteria, Criterion{
			Kind: criterionColor,
			Key:  clr,
			Path: "data.Colors",
		})
	}

	return criteria
}

// FindMatches returns up to limit catalog images, all sharing the highest
// match count achieved by any document. With no active criteria, or when the
// ranking query fails, it returns the first limit documents in identifier
// order with match count 0.
func (s *MatcherService) FindMatches(ctx context.Context, req *models.VisionBoardRequest, limit int) ([]models.MatchResult, error) {
	criteria := BuildCriteria(req)
	if len(criteria) == 0 {
		slog.Info("no active criteria; returning default catalog sample", "limit", limit)
		return s.defaultSample(ctx, limit)
	}

	pipeline := buildScoringPipeline(criteria)

	cursor, err := s.catalog.Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		slog.Warn("scoring aggregation failed; falling back to default sample", "error", err)
		return s.defaultSample(ctx, limit)
	}
	defer cursor.Close(ctx)

	var allDocs []models.MatchResult
	if err := cursor.All(ctx, &allDocs); err != nil {
		slog.Warn("scoring cursor decode failed; falling back to default sample", "error", err)
		return s.defaultSample(ctx, limit)
	}

	docs := SelectTopTier(allDocs, len(criteria))
	if m := GetMetrics(); m != nil {
		m.RecordMatchTierSize(len(docs))
	}
	if len(docs) == 0 {
		slog.Warn("no documents matched any criteria; returning default sample",
			"criteria", len(criteria), "limit", limit)
		return s.defaultSample(ctx, limit)
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}

	slog.Info("matched catalog documents",
		"matched", len(docs),
		"match_count", docs[0].MatchCount,
		"criteria", len(criteria),
	)
	s.logMatchedCriteria(ctx, docs[0], req, criteria)

	return docs, nil
}

// SelectTopTier walks match-count tiers from the maximum possible count down
// to 1 and returns the first non-empty tier. Tiers are never merged: every
// returned document shares the single highest count that has any matches.
func SelectTopTier(docs []models.MatchResult, totalCriteria int) []models.MatchResult {
	for target := totalCriteria; target >= 1; target-- {
		var tier []models.MatchResult
		for _, d := range docs {
			if d.MatchCount == target {
				tier = append(tier, d)
			}
		}
		if len(tier) > 0 {
			return tier
		}
	}
	return nil
}

// buildScoringPipeline assembles the aggregation that annotates every catalog
// document with its criteria match count. Missing fields are coalesced to
// empty values so a sparse document scores zero instead of erroring.
func buildScoringPipeline(criteria []Criterion) []bson.D {
	conds := make(bson.A, 0, len(criteria))
	for _, c := range criteria {
		switch c.Kind {
		case criterionField:
			conds = append(conds, bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$" + c.Path, c.Value}}, 1, 0},
			})
		case criterionEvent:
			conds = append(conds, bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{c.Key, bson.M{"$ifNull": bson.A{"$data.Events", bson.A{}}}}}, 1, 0},
			})
		case criterionColor:
			conds = append(conds, bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{c.Key, "$colorList"}}, 1, 0},
			})
		}
	}

	return []bson.D{
		// Color tags are {color, description} records; membership tests need
		// the bare color values, same as event membership.
		{{Key: "$addFields", Value: bson.M{
			"colorList": bson.M{
				"$map": bson.M{
					"input": bson.M{"$ifNull": bson.A{"$data.Colors", bson.A{}}},
					"as":    "c",
					"in":    "$$c.color",
				},
			},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"matchCount": bson.M{"$add": conds},
		}}},
		// Secondary _id sort keeps equal-count ordering deterministic.
		{{Key: "$sort", Value: bson.D{{Key: "matchCount", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{
			"image_link": 1,
			"data":       1,
			"colorList":  1,
			"matchCount": 1,
		}}},
	}
}

// defaultSample returns the first limit catalog documents in identifier
// order, each with match count 0. This is the defined fallback for empty
// criteria, zero-match results and ranking failures.
func (s *MatcherService) defaultSample(ctx context.Context, limit int) ([]models.MatchResult, error) {
	if m := GetMetrics(); m != nil {
		m.RecordDefaultSampleHit()
	}
	if s.cache != nil {
		if docs, found := s.cache.DefaultSample(limit); found {
			return docs, nil
		}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"image_link": 1, "data": 1})

	cursor, err := s.catalog.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch default catalog sample: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.MatchResult
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode default catalog sample: %w", err)
	}

	for i := range docs {
		docs[i].MatchCount = 0
		docs[i].ColorList = bareColors(docs[i].Data.Colors)
	}

	if s.cache != nil {
		s.cache.SetDefaultSample(limit, docs)
	}

	return docs, nil
}

// WarmDefaultSample refreshes the cached default sample. Used by the
// background catalog job.
func (s *MatcherService) WarmDefaultSample(ctx context.Context, limit int) error {
	if s.cache != nil {
		s.cache.Flush()
	}
	_, err := s.defaultSample(ctx, limit)
	return err
}

// CatalogSize counts the image catalog. Used by the background catalog job.
func (s *MatcherService) CatalogSize(ctx context.Context) (int64, error) {
	return s.catalog.CountDocuments(ctx, bson.M{})
}

// logMatchedCriteria fetches the top match's full document and logs which
// criteria it satisfied. Diagnostic only: failures here never affect the
// returned result.
func (s *MatcherService) logMatchedCriteria(ctx context.Context, top models.MatchResult, req *models.VisionBoardRequest, criteria []Criterion) {
	var full models.CatalogImage
	err := s.catalog.
		FindOne(ctx, bson.M{"image_link": top.ImageLink}, options.FindOne().SetProjection(bson.M{"_id": 0, "data": 1})).
		Decode(&full)
	if err != nil {
		slog.Debug("criteria diagnostic lookup failed", "image_link", top.ImageLink, "error", err)
		return
	}

	matched := MatchedCriteria(&full.Data, criteria)
	slog.Info("top match criteria", "image_link", top.ImageLink, "matched", matched)
}

// MatchedCriteria reports which criteria a catalog document satisfies, in
// the same per-criterion terms the scoring pipeline counts. Missing document
// fields simply do not match.
func MatchedCriteria(data *models.CatalogImageData, criteria []Criterion) []string {
	var matched []string
	for _, c := range criteria {
		switch c.Kind {
		case criterionField:
			dataKey := c.Path[len("data."):]
			if data.Field(dataKey) == c.Value {
				matched = append(matched, fmt.Sprintf("%s=%s", c.Key, c.Value))
			}
		case criterionEvent:
			if containsString(data.Events, c.Key) {
				matched = append(matched, "event:"+c.Key)
			}
		case criterionColor:
			if containsString(bareColors(data.Colors), c.Key) {
				matched = append(matched, "color:"+c.Key)
			}
		}
	}
	return matched
}

func bareColors(tags []models.ColorTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.Color)
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
