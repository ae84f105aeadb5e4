package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"weddingverse/internal/services"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail bool // true when the service message reaches the client
	}{
		{"client input", services.NewClientInputError("at least one preference is required"), fiber.StatusBadRequest, true},
		{"not found", services.NewNotFoundError("no vision board found for reference_id abc"), fiber.StatusNotFound, true},
		{"upstream", services.NewUpstreamError("failed to generate vision board narrative", errors.New("quota exceeded")), fiber.StatusBadGateway, false},
		{"internal", services.NewInternalError("failed to persist vision board", errors.New("write concern error")), fiber.StatusInternalServerError, false},
		{"plain error", errors.New("something else"), fiber.StatusInternalServerError, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/boom", func(c *fiber.Ctx) error {
				return respondError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}

			raw, _ := io.ReadAll(resp.Body)
			var body map[string]string
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("non-JSON error body: %s", raw)
			}
			if body["error"] == "" {
				t.Error("error body missing message")
			}

			gotDetail := body["error"] == tc.err.Error()
			if gotDetail != tc.wantDetail {
				t.Errorf("detail exposure = %v (%q), want %v", gotDetail, body["error"], tc.wantDetail)
			}
		})
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	app := fiber.New()
	h := NewVisionBoardHandler(nil)
	app.Post("/api/v1/vision-board", h.Create)

	req := httptest.NewRequest("POST", "/api/v1/vision-board", nil)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
