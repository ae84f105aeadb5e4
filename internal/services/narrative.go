package services

import (
	"encoding/json"
	"sort"
	"strings"

	"weddingverse/internal/config"
	"weddingverse/internal/models"
)

// The generative reply is parsed through an ordered chain of extraction
// strategies; the first success wins. The chain ends in a deterministic
// template step that cannot fail, so a board always carries a complete
// narrative even when the model returns garbage.

type extractor func(text string) (*models.Narrative, bool)

var extractors = []extractor{
	extractDirectJSON,
	extractFencedJSON,
	extractFromLines,
}

// ExtractNarrative runs the parsing strategies over the raw reply text.
// It reports false when every strategy failed and the template fallback
// must be used.
func ExtractNarrative(text string) (*models.Narrative, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	for _, try := range extractors {
		if n, ok := try(text); ok {
			return n, true
		}
	}
	return nil, false
}

// saneNarrative applies the basic sanity gate: title non-empty and at most
// five words, tagline non-empty, summary non-empty and at least 20 chars.
func saneNarrative(n *models.Narrative) bool {
	if n.Title == "" || len(strings.Fields(n.Title)) > 5 {
		return false
	}
	if n.Tagline == "" {
		return false
	}
	return len(n.Summary) >= 20
}

func extractDirectJSON(text string) (*models.Narrative, bool) {
	var n models.Narrative
	if err := json.Unmarshal([]byte(text), &n); err != nil {
		return nil, false
	}
	n.Title = strings.TrimSpace(n.Title)
	n.Tagline = strings.TrimSpace(n.Tagline)
	n.Summary = strings.TrimSpace(n.Summary)
	if !saneNarrative(&n) {
		return nil, false
	}
	return &n, true
}

func extractFencedJSON(text string) (*models.Narrative, bool) {
	inner, found := stripFences(text)
	if !found {
		return nil, false
	}
	return extractDirectJSON(inner)
}

// stripFences returns the contents of the first markdown code fence,
// dropping an optional language tag on the opening line.
func stripFences(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start == -1 {
		return "", false
	}
	rest := text[start+3:]

	// Opening line may carry a language tag ("json").
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		firstLine := strings.TrimSpace(rest[:nl])
		if firstLine == "" || isLanguageTag(firstLine) {
			rest = rest[nl+1:]
		}
	}

	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}

func isLanguageTag(line string) bool {
	if len(line) > 10 {
		return false
	}
	for _, r := range line {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// extractFromLines is the line-based heuristic: labelled lines win, then
// remaining slots are filled by line length (shortest as title, longest as
// summary, a middle-length line as tagline).
func extractFromLines(text string) (*models.Narrative, bool) {
	if inner, found := stripFences(text); found {
		text = inner
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "```") {
			continue
		}
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		return nil, false
	}

	var n models.Narrative
	for _, ln := range lines {
		if v, ok := labelledValue(ln, "title"); ok && n.Title == "" {
			n.Title = v
		}
		if v, ok := labelledValue(ln, "tagline"); ok && n.Tagline == "" {
			n.Tagline = v
		}
		if v, ok := labelledValue(ln, "summary"); ok && n.Summary == "" {
			n.Summary = v
		}
	}

	if n.Title == "" || n.Tagline == "" || n.Summary == "" {
		byLength := make([]string, len(lines))
		copy(byLength, lines)
		sort.SliceStable(byLength, func(i, j int) bool {
			return len(byLength[i]) < len(byLength[j])
		})
		if n.Title == "" {
			n.Title = byLength[0]
		}
		if n.Summary == "" {
			n.Summary = byLength[len(byLength)-1]
		}
		if n.Tagline == "" {
			n.Tagline = byLength[len(byLength)/2]
		}
	}

	if n.Title == "" || n.Tagline == "" || n.Summary == "" {
		return nil, false
	}
	return &n, true
}

// labelledValue matches lines like `Title: Gilded Opulence` or
// `"title" - something`, returning the remainder after the separator.
func labelledValue(line, label string) (string, bool) {
	lower := strings.ToLower(line)
	idx := strings.Index(lower, label)
	if idx == -1 {
		return "", false
	}
	rest := line[idx+len(label):]
	sep := strings.IndexAny(rest, ":-")
	if sep == -1 {
		return "", false
	}
	value := strings.Trim(strings.TrimSpace(rest[sep+1:]), `"',`)
	if value == "" {
		return "", false
	}
	return value, true
}

// FallbackNarrative synthesizes a deterministic narrative from the mapped
// preferences and top colors. It is the guaranteed-success tail of the
// extraction chain.
func FallbackNarrative(req *models.VisionBoardRequest, topColors, events []string) *models.Narrative {
	style := req.WeddingStyle
	venue := req.VenueSuits
	setting := req.WeddingPreference

	if len(topColors) == 0 {
		topColors = config.DefaultPalette
	}

	// Title: lead with the strongest descriptive preference, else the
	// dominant color.
	base := style
	if base == "" {
		base = venue
	}
	if base == "" {
		base = setting
	}
	if base == "" {
		base = topColors[0]
	}
	title := base + " Celebration"

	words := []string{"A"}
	if style != "" {
		words = append(words, style)
	}
	if setting != "" {
		words = append(words, setting)
	}
	words = append(words, "Wedding", "Celebration")
	tagline := strings.Join(words, " ")

	var b strings.Builder
	b.WriteString("A wedding celebration")
	if venue != "" {
		b.WriteString(" at a " + venue + " venue")
	} else if setting != "" {
		b.WriteString(" in an " + setting + " setting")
	}
	if req.Location != "" {
		b.WriteString(" in " + req.Location)
	}
	if style != "" {
		b.WriteString(", styled " + style)
	}
	b.WriteString(" in shades of " + joinWithAnd(topColors))
	if req.WeddingTone != "" {
		b.WriteString(", carrying a " + req.WeddingTone + " tone")
	} else if req.GuestExperience != "" {
		b.WriteString(", shaped for a " + req.GuestExperience)
	}
	if len(events) > 0 {
		b.WriteString(", with " + joinWithAnd(events) + " to come")
	}
	b.WriteString(".")

	return &models.Narrative{
		Title:   title,
		Tagline: tagline,
		Summary: b.String(),
	}
}

func joinWithAnd(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}
	return strings.Join(values[:len(values)-1], ", ") + " and " + values[len(values)-1]
}
