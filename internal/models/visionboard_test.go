package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeList(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil input", nil, []string{}},
		{"plain values", []string{"Haldi", "Sangeet"}, []string{"Haldi", "Sangeet"}},
		{"comma separated", []string{"Haldi, Sangeet ,Mehndi"}, []string{"Haldi", "Sangeet", "Mehndi"}},
		{"duplicates collapse", []string{"Gold", "Gold", " Gold "}, []string{"Gold"}},
		{"mixed forms", []string{"Haldi,Sangeet", "Sangeet", "Reception"}, []string{"Haldi", "Sangeet", "Reception"}},
		{"empties dropped", []string{"", " ", ",,", "Haldi"}, []string{"Haldi"}},
		{"order preserved", []string{"B", "A", "B", "C"}, []string{"B", "A", "C"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeList(tc.input)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeList(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestStringListUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		json string
		want []string
	}{
		{"array form", `["Engagement Party","Sangeet"]`, []string{"Engagement Party", "Sangeet"}},
		{"single string", `"Sangeet"`, []string{"Sangeet"}},
		{"comma string", `"Engagement Party, Sangeet"`, []string{"Engagement Party", "Sangeet"}},
		{"array with comma entries", `["Haldi,Mehndi","Sangeet"]`, []string{"Haldi", "Mehndi", "Sangeet"}},
		{"duplicate entries", `["Gold","Gold"]`, []string{"Gold"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got StringList
			if err := json.Unmarshal([]byte(tc.json), &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !reflect.DeepEqual([]string(got), tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}

	var invalid StringList
	if err := json.Unmarshal([]byte(`42`), &invalid); err == nil {
		t.Error("expected error for numeric input")
	}
}

func TestRequestUnmarshalAcceptsBothEventForms(t *testing.T) {
	asList := `{"wedding_preference":"Outdoor","events":["Haldi","Sangeet"]}`
	asString := `{"wedding_preference":"Outdoor","events":"Haldi, Sangeet"}`

	var fromList, fromString VisionBoardRequest
	if err := json.Unmarshal([]byte(asList), &fromList); err != nil {
		t.Fatalf("list form failed: %v", err)
	}
	if err := json.Unmarshal([]byte(asString), &fromString); err != nil {
		t.Fatalf("string form failed: %v", err)
	}

	if !reflect.DeepEqual(fromList.Events, fromString.Events) {
		t.Errorf("forms disagree: %v vs %v", fromList.Events, fromString.Events)
	}
}

func TestVisionBoardResponseJSONContract(t *testing.T) {
	resp := VisionBoardResponse{
		ReferenceID: "ref-123",
		Timestamp:   "2025-06-01 12:30:00",
		Request:     VisionBoardRequest{WeddingStyle: "Classic"},
		Title:       "Gilded Opulence",
		Tagline:     "A Royal Indoor Wedding in Jaipur",
		Summary:     "An opulent celebration in gold and ivory.",
		Boards: []BoardItem{
			{ImageLinks: []string{"https://cdn.example.com/img1.jpg"}, Colors: []string{"Gold", "Ivory"}},
		},
		ResponseType: ResponseTypeVisionBoard,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	body := string(data)

	// The outbound field names are the bit-compatible external contract.
	for _, field := range []string{
		`"reference_id"`, `"timestamp"`, `"request"`, `"title"`,
		`"tagline"`, `"summary"`, `"boards"`, `"image_links"`,
		`"colors"`, `"response_type":"vision_board"`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("response JSON missing %s: %s", field, body)
		}
	}

	// Internal store identifiers never leak.
	if strings.Contains(body, `"_id"`) {
		t.Errorf("response JSON leaks store identifier: %s", body)
	}
}

func TestRequestFieldLookup(t *testing.T) {
	req := VisionBoardRequest{
		WeddingPreference: "Outdoor",
		VenueSuits:        "Beach",
		WeddingTone:       "Monochrome",
	}

	if got := req.Field("wedding_preference"); got != "Outdoor" {
		t.Errorf("wedding_preference = %q", got)
	}
	if got := req.Field("venue_suits"); got != "Beach" {
		t.Errorf("venue_suits = %q", got)
	}
	if got := req.Field("wedding_style"); got != "" {
		t.Errorf("unset wedding_style = %q, want empty", got)
	}
	if got := req.Field("unknown_key"); got != "" {
		t.Errorf("unknown key = %q, want empty", got)
	}
}
