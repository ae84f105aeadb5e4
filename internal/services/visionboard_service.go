package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"weddingverse/internal/config"
	"weddingverse/internal/database"
	"weddingverse/internal/logging"
	"weddingverse/internal/models"
)

// Timestamps are rendered in a fixed timezone regardless of server locale.
var boardTimezone = loadBoardTimezone()

func loadBoardTimezone() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// VisionBoardService composes vision boards: it matches catalog images,
// orchestrates the generative narrative and persists the result.
type VisionBoardService struct {
	mongoDB    *database.MongoDB
	matcher    *MatcherService
	genai      *GenAIService
	collection string
	matchLimit int
}

// NewVisionBoardService creates a new vision board service writing to the
// given output collection
func NewVisionBoardService(mongoDB *database.MongoDB, matcher *MatcherService, genai *GenAIService, collection string, matchLimit int) *VisionBoardService {
	if collection == "" {
		collection = database.CollectionVisionBoards
	}
	if matchLimit <= 0 {
		matchLimit = 10
	}
	return &VisionBoardService{
		mongoDB:    mongoDB,
		matcher:    matcher,
		genai:      genai,
		collection: collection,
		matchLimit: matchLimit,
	}
}

// Compose builds, persists and returns a vision board for the preference
// set. The stored board always carries a freshly generated reference_id;
// any identifier in the request is only echoed back inside "request".
func (s *VisionBoardService) Compose(ctx context.Context, req *models.VisionBoardRequest) (*models.VisionBoardResponse, error) {
	start := time.Now()
	board, err := s.compose(ctx, req)
	if m := GetMetrics(); m != nil {
		m.RecordBoardRequest()
		m.RecordBoardLatency(time.Since(start).Seconds())
		if err != nil {
			m.RecordBoardError(KindOf(err).String())
		}
	}
	return board, err
}

func (s *VisionBoardService) compose(ctx context.Context, req *models.VisionBoardRequest) (*models.VisionBoardResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	docs, err := s.matcher.FindMatches(ctx, req, s.matchLimit)
	if err != nil {
		return nil, NewInternalError("failed to query image catalog", err)
	}
	if len(docs) == 0 {
		return nil, NewNotFoundError("no catalog images available for a vision board")
	}

	boards := BuildBoardItems(docs)
	if len(boards) == 0 {
		// Matching succeeded but no document carried a usable link and
		// color list: a data-shape mismatch, not absence of matches.
		return nil, NewInternalError("matched images yielded no valid board items", nil)
	}

	topColors := TopColors(docs, 4)
	matchedEvents := eventUnion(docs)
	requestEvents := models.NormalizeList(req.Events)

	systemPrompt, userPrompt := BuildPrompts(req, topColors, matchedEvents, secondaryTags(docs, 5))

	reply, err := s.genai.GenerateContent(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, NewUpstreamError("failed to generate vision board narrative", err)
	}

	narrativeSource := "generated"
	narrative, ok := ExtractNarrative(reply)
	if !ok {
		slog.Warn("generative reply unparsable; using template narrative", "reply_length", len(reply))
		narrative = FallbackNarrative(req, topColors, requestEvents)
		narrativeSource = "template"
	}
	if m := GetMetrics(); m != nil {
		m.RecordNarrativeOutcome(narrativeSource)
	}

	response := &models.VisionBoardResponse{
		ReferenceID:  uuid.NewString(),
		Timestamp:    time.Now().In(boardTimezone).Format("2006-01-02 15:04:05"),
		Request:      *req,
		Title:        narrative.Title,
		Tagline:      narrative.Tagline,
		Summary:      narrative.Summary,
		Boards:       boards,
		ResponseType: models.ResponseTypeVisionBoard,
	}

	if _, err := s.mongoDB.Collection(s.collection).InsertOne(ctx, response); err != nil {
		return nil, NewInternalError("failed to persist vision board", err)
	}

	logging.WithRequest(response.ReferenceID).Info("vision board composed",
		"boards", len(response.Boards),
		"title", response.Title,
	)

	return response, nil
}

// GetByReference returns every stored board for the reference id. The store
// may in principle hold more than one document per id, so the contract is a
// list; ids are treated as intended-unique on the write path.
func (s *VisionBoardService) GetByReference(ctx context.Context, referenceID string) ([]models.VisionBoardResponse, error) {
	if strings.TrimSpace(referenceID) == "" {
		return nil, NewClientInputError("reference_id is required")
	}

	cursor, err := s.mongoDB.Collection(s.collection).Find(ctx, bson.M{"reference_id": referenceID})
	if err != nil {
		return nil, NewInternalError("failed to query vision boards", err)
	}
	defer cursor.Close(ctx)

	var boards []models.VisionBoardResponse
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, NewInternalError("failed to decode vision boards", err)
	}

	if len(boards) == 0 {
		return nil, NewNotFoundError(fmt.Sprintf("no vision board found for reference_id %s", referenceID))
	}

	return boards, nil
}

// validateRequest rejects a preference set with nothing to match on.
func validateRequest(req *models.VisionBoardRequest) error {
	for _, key := range config.FieldOrder {
		if req.Field(key) != "" {
			return nil
		}
	}
	if req.Location != "" {
		return nil
	}
	if len(models.NormalizeList(req.Events)) > 0 || len(models.NormalizeList(req.Colors)) > 0 {
		return nil
	}
	return NewClientInputError("at least one wedding preference, event or color is required")
}

// BuildBoardItems converts match results into board items, one per matched
// document. Documents without a usable image link or color list are dropped.
func BuildBoardItems(docs []models.MatchResult) []models.BoardItem {
	items := make([]models.BoardItem, 0, len(docs))
	for _, d := range docs {
		colors := d.ColorList
		if len(colors) == 0 {
			colors = bareColors(d.Data.Colors)
		}
		if d.ImageLink == "" || len(colors) == 0 {
			continue
		}
		items = append(items, models.BoardItem{
			ImageLinks: []string{d.ImageLink},
			Colors:     colors,
		})
	}
	return items
}

// TopColors ranks color tags across the matched set by frequency, keeping
// the top n. Ties break by first-seen order; the static fallback palette is
// returned when no colors are present at all.
func TopColors(docs []models.MatchResult, n int) []string {
	counts := make(map[string]int)
	var order []string

	for _, d := range docs {
		colors := d.ColorList
		if len(colors) == 0 {
			colors = bareColors(d.Data.Colors)
		}
		for _, c := range colors {
			if c == "" {
				continue
			}
			if counts[c] == 0 {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	if len(order) == 0 {
		return append([]string(nil), config.DefaultPalette...)
	}

	// Stable sort over first-seen order keeps ties deterministic.
	ranked := append([]string(nil), order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// eventUnion collects the distinct event tags across the matched set in
// first-seen order.
func eventUnion(docs []models.MatchResult) []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range docs {
		for _, ev := range d.Data.Events {
			if ev == "" || seen[ev] {
				continue
			}
			seen[ev] = true
			out = append(out, ev)
		}
	}
	return out
}

// secondaryTags unions the descriptive attributes (venue type, style,
// decorations, theme) across the matched set, capped for prompt use.
func secondaryTags(docs []models.MatchResult, limit int) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		if v == "" || seen[v] || len(out) >= limit {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for _, d := range docs {
		add(d.Data.VenueSuits)
		add(d.Data.WeddingStyle)
		add(d.Data.Decorations)
		add(d.Data.Theme)
	}
	return out
}

// BuildPrompts constructs the system and user instruction pair for the
// generative call. Word and sentence counts are instructions to the model,
// not mechanically enforced afterwards.
func BuildPrompts(req *models.VisionBoardRequest, topColors, events, tags []string) (string, string) {
	systemPrompt := "You are a specialized AI assistant for processing wedding vision board inputs. " +
		"Your task is to generate precise, evocative titles, taglines and concise summaries " +
		"that accurately reflect the provided content. Adherence to all specified " +
		"constraints and output format is mandatory."

	var b strings.Builder
	b.WriteString("Analyze the following wedding vision board content:\n")
	for _, key := range config.FieldOrder {
		if value := req.Field(key); value != "" {
			b.WriteString(fmt.Sprintf("- %s: %s\n", config.FieldLabels[key], value))
		}
	}
	if req.Location != "" {
		b.WriteString(fmt.Sprintf("- %s: %s\n", config.FieldLabels["location"], req.Location))
	}
	if len(events) > 0 {
		b.WriteString("- Special Events: " + strings.Join(events, ", ") + "\n")
	}
	b.WriteString("- Color Palette: " + strings.Join(topColors, ", ") + "\n")
	if len(tags) > 0 {
		b.WriteString("- Reference Image Tags: " + strings.Join(tags, ", ") + "\n")
	}

	b.WriteString("\nBased on this analysis, provide the following:\n")
	b.WriteString("1. A professional and expressive title, strictly limited to a maximum of two words.\n")
	b.WriteString("2. A tagline of exactly 7 words following the template \"A {Style} {Setting} {Event Type} in {Location}\".\n")
	b.WriteString("3. A summary of exactly 2 sentences and 42 words that combines the setting, color palette and style into figurative language.\n\n")
	b.WriteString("Output the response exclusively as a valid JSON object containing three keys: 'title', 'tagline' and 'summary'.")

	return systemPrompt, b.String()
}
