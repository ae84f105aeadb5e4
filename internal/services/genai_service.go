package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fixed sampling parameters for board narrative generation. Low temperature
// keeps the JSON-shaped reply stable across calls.
const (
	genaiTemperature     = 0.2
	genaiTopP            = 1.0
	genaiTopK            = 32
	genaiMaxOutputTokens = 4096
	genaiRequestTimeout  = 60 * time.Second
)

// GenAIService calls the Gemini generateContent endpoint with a system and
// user instruction pair. Any invocation failure is terminal for the request;
// retries are deliberately not attempted here.
type GenAIService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGenAIService creates a new generative-text client
func NewGenAIService(baseURL, apiKey, model string) *GenAIService {
	return &GenAIService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: genaiRequestTimeout,
		},
	}
}

type genaiPart struct {
	Text string `json:"text"`
}

type genaiContent struct {
	Role  string      `json:"role,omitempty"`
	Parts []genaiPart `json:"parts"`
}

type genaiRequest struct {
	SystemInstruction *genaiContent    `json:"system_instruction,omitempty"`
	Contents          []genaiContent   `json:"contents"`
	GenerationConfig  genaiSamplingCfg `json:"generationConfig"`
}

type genaiSamplingCfg struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type genaiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []genaiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends the prompt pair and returns the raw reply text.
func (s *GenAIService) GenerateContent(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := genaiRequest{
		SystemInstruction: &genaiContent{
			Parts: []genaiPart{{Text: systemPrompt}},
		},
		Contents: []genaiContent{
			{Role: "user", Parts: []genaiPart{{Text: userPrompt}}},
		},
		GenerationConfig: genaiSamplingCfg{
			Temperature:     genaiTemperature,
			TopP:            genaiTopP,
			TopK:            genaiTopK,
			MaxOutputTokens: genaiMaxOutputTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal generation request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed genaiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse generation response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generation response contained no candidates")
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return strings.TrimSpace(text.String()), nil
}
