package assistant

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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generation settings mirror the product defaults: short, focused replies.
const (
	genTemperature     = 0.7
	genTopP            = 0.9
	genMaxOutputTokens = 500
)

// generator produces one model reply for a prepared conversation.
type generator interface {
	Generate(ctx context.Context, model, system string, contents []turn) (string, error)
}

// apiError is a non-2xx reply from the hosted model API.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("model API error (%d): %s", e.Status, e.Message)
}

// geminiClient calls the hosted generateContent endpoint.
type geminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newGeminiClient(apiKey string) *geminiClient {
	return &geminiClient{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	SystemInstruction *turn            `json:"system_instruction,omitempty"`
	Contents          []turn           `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (g *geminiClient) Generate(ctx context.Context, model, system string, contents []turn) (string, error) {
	req := geminiRequest{
		SystemInstruction: &turn{Parts: []part{{Text: system}}},
		Contents:          contents,
		GenerationConfig: generationConfig{
			Temperature:     genTemperature,
			TopP:            genTopP,
			MaxOutputTokens: genMaxOutputTokens,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var gerr geminiError
		if json.Unmarshal(respBody, &gerr) == nil && gerr.Error.Message != "" {
			msg = gerr.Error.Status + ": " + gerr.Error.Message
		}
		return "", &apiError{Status: resp.StatusCode, Message: msg}
	}

	var out geminiResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break
	}
	return sb.String(), nil
}
