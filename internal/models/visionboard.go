package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResponseTypeVisionBoard is the discriminator tag carried by every stored
// vision board document.
const ResponseTypeVisionBoard = "vision_board"

// StringList accepts either a JSON array of strings or a single
// (possibly comma-separated) string. Both forms normalize to a deduplicated,
// ordered list of trimmed non-empty values at the input boundary.
type StringList []string

// NormalizeList splits comma-separated entries, trims whitespace, drops
// empties and deduplicates while preserving first-seen order.
func NormalizeList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		parts := []string{v}
		if strings.Contains(v, ",") {
			parts = strings.Split(v, ",")
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// UnmarshalJSON implements the string-or-list form of the field.
func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = NormalizeList([]string{single})
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*s = NormalizeList(many)
	return nil
}

// UnmarshalBSONValue mirrors UnmarshalJSON for documents read back from the
// store, where echoed requests carry the same dual shape.
func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		rv := bson.RawValue{Type: t, Value: data}
		*s = NormalizeList([]string{rv.StringValue()})
		return nil
	case bson.TypeArray:
		rv := bson.RawValue{Type: t, Value: data}
		var many []string
		if err := rv.Unmarshal(&many); err != nil {
			return fmt.Errorf("expected array of strings: %w", err)
		}
		*s = NormalizeList(many)
		return nil
	case bson.TypeNull:
		*s = nil
		return nil
	default:
		return fmt.Errorf("cannot decode %s into StringList", t)
	}
}

// VisionBoardRequest is the preference set supplied by the caller.
// reference_id may arrive from the client but is never used as the stored
// board identity; a fresh identifier is generated per compose.
type VisionBoardRequest struct {
	WeddingPreference string     `json:"wedding_preference,omitempty" bson:"wedding_preference,omitempty"`
	VenueSuits        string     `json:"venue_suits,omitempty" bson:"venue_suits,omitempty"`
	WeddingStyle      string     `json:"wedding_style,omitempty" bson:"wedding_style,omitempty"`
	WeddingTone       string     `json:"wedding_tone,omitempty" bson:"wedding_tone,omitempty"`
	GuestExperience   string     `json:"guest_experience,omitempty" bson:"guest_experience,omitempty"`
	PeopleDressCode   string     `json:"people_dress_code,omitempty" bson:"people_dress_code,omitempty"`
	Location          string     `json:"location,omitempty" bson:"location,omitempty"`
	Events            StringList `json:"events,omitempty" bson:"events,omitempty"`
	Colors            StringList `json:"colors,omitempty" bson:"colors,omitempty"`
	ReferenceID       string     `json:"reference_id,omitempty" bson:"reference_id,omitempty"`
}

// Field returns the value of a single-valued preference by its key.
func (r *VisionBoardRequest) Field(key string) string {
	switch key {
	case "wedding_preference":
		return r.WeddingPreference
	case "venue_suits":
		return r.VenueSuits
	case "wedding_style":
		return r.WeddingStyle
	case "wedding_tone":
		return r.WeddingTone
	case "guest_experience":
		return r.GuestExperience
	case "people_dress_code":
		return r.PeopleDressCode
	case "location":
		return r.Location
	}
	return ""
}

// ColorTag is a single color annotation on a catalog image.
type ColorTag struct {
	Color       string `json:"color" bson:"color"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// CatalogImageData holds the descriptive attributes of a catalog image.
// Key names match the stored document exactly.
type CatalogImageData struct {
	WeddingPreference string     `bson:"Wedding Preference,omitempty" json:"wedding_preference,omitempty"`
	VenueSuits        string     `bson:"Venue Suits,omitempty" json:"venue_suits,omitempty"`
	WeddingStyle      string     `bson:"Wedding Style,omitempty" json:"wedding_style,omitempty"`
	WeddingTone       string     `bson:"Wedding Tone,omitempty" json:"wedding_tone,omitempty"`
	GuestExperience   string     `bson:"Guest Experience,omitempty" json:"guest_experience,omitempty"`
	PeopleDressCode   string     `bson:"People Dress Code,omitempty" json:"people_dress_code,omitempty"`
	Decorations       string     `bson:"Decorations,omitempty" json:"decorations,omitempty"`
	Theme             string     `bson:"Theme,omitempty" json:"theme,omitempty"`
	Events            []string   `bson:"Events,omitempty" json:"events,omitempty"`
	Colors            []ColorTag `bson:"Colors,omitempty" json:"colors,omitempty"`
}

// Field returns a descriptive attribute by its catalog key (the part of the
// storage path after "data.").
func (d *CatalogImageData) Field(key string) string {
	switch key {
	case "Wedding Preference":
		return d.WeddingPreference
	case "Venue Suits":
		return d.VenueSuits
	case "Wedding Style":
		return d.WeddingStyle
	case "Wedding Tone":
		return d.WeddingTone
	case "Guest Experience":
		return d.GuestExperience
	case "People Dress Code":
		return d.PeopleDressCode
	case "Decorations":
		return d.Decorations
	case "Theme":
		return d.Theme
	}
	return ""
}

// CatalogImage is a stored image catalog record.
type CatalogImage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ImageLink string             `bson:"image_link" json:"image_link"`
	Data      CatalogImageData   `bson:"data" json:"data"`
}

// MatchResult is a catalog image annotated with how many of the requested
// criteria it satisfies. matchCount is 0..N where N is the number of active
// criteria.
type MatchResult struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ImageLink  string             `bson:"image_link" json:"image_link"`
	Data       CatalogImageData   `bson:"data" json:"data"`
	ColorList  []string           `bson:"colorList,omitempty" json:"color_list,omitempty"`
	MatchCount int                `bson:"matchCount" json:"match_count"`
}

// BoardItem is the externally visible unit: the image link(s) of one matched
// document plus its bare color values.
type BoardItem struct {
	ImageLinks []string `json:"image_links" bson:"image_links"`
	Colors     []string `json:"colors" bson:"colors"`
}

// VisionBoardResponse is the final persisted and returned entity.
type VisionBoardResponse struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ReferenceID  string             `json:"reference_id" bson:"reference_id"`
	Timestamp    string             `json:"timestamp" bson:"timestamp"`
	Request      VisionBoardRequest `json:"request" bson:"request"`
	Title        string             `json:"title" bson:"title"`
	Tagline      string             `json:"tagline" bson:"tagline"`
	Summary      string             `json:"summary" bson:"summary"`
	Boards       []BoardItem        `json:"boards" bson:"boards"`
	ResponseType string             `json:"response_type" bson:"response_type"`
}

// Narrative holds the generated (or fallback) text for a board.
type Narrative struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
	Summary string `json:"summary"`
}
