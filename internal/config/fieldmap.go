package config

// Static field mapping from preference keys to catalog document paths.
// The catalog stores descriptive attributes under "data" with human-cased
// key names; these maps are initialized once and never mutated.

// FieldMap maps a preference key to its catalog storage path.
var FieldMap = map[string]string{
	"wedding_preference": "data.Wedding Preference",
	"venue_suits":        "data.Venue Suits",
	"wedding_style":      "data.Wedding Style",
	"wedding_tone":       "data.Wedding Tone",
	"guest_experience":   "data.Guest Experience",
	"people_dress_code":  "data.People Dress Code",
}

// FieldOrder fixes the iteration order over FieldMap so criteria construction
// and prompts are deterministic.
var FieldOrder = []string{
	"wedding_preference",
	"venue_suits",
	"wedding_style",
	"wedding_tone",
	"guest_experience",
	"people_dress_code",
}

// FieldLabels maps preference keys to the human-readable labels used in
// generation prompts.
var FieldLabels = map[string]string{
	"wedding_preference": "Setting",
	"venue_suits":        "Venue Type",
	"wedding_style":      "Style",
	"wedding_tone":       "Tone",
	"guest_experience":   "Guest Experience",
	"people_dress_code":  "Dress Code",
	"location":           "Location",
}

// DefaultPalette is the fallback color list used when no matched document
// carries any color tags.
var DefaultPalette = []string{"Ivory", "Gold"}
