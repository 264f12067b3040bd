// Package llm normalizes Kolokwa text into standard English through an
// OpenAI-compatible chat-completions endpoint. It is invoked only on
// explicit user action, never as part of the transcription pipeline.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultHTTPTimeout = 60 * time.Second
)

const systemPrompt = "You are a normalization assistant. Your task is to convert Liberian Kolokwa / " +
	"Liberian English into clear standard English. This is NOT translation or paraphrasing. " +
	"Preserve the original meaning and intent exactly. Do NOT summarize. Do NOT add or remove " +
	"information. Keep sentence structure as close as possible to the original."

// fewShotExamples anchor the model on the expected register.
var fewShotExamples = [][2]string{
	{"I na know", "I do not know"},
	{"We dey go market tomorrow", "We are going to the market tomorrow"},
	{"He say he na coming today", "He said he is not coming today"},
}

// ErrNotConfigured reports that the endpoint or key is missing.
var ErrNotConfigured = errors.New("llm: base URL and API key must be configured")

// APIError carries a non-success HTTP response from the endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm: endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Normalizer is a client for one chat-completions endpoint.
type Normalizer struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

// NewNormalizer builds a client. Model falls back to a default when empty.
func NewNormalizer(baseURL, apiKey, model string) *Normalizer {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Normalizer{
		BaseURL:    strings.TrimSpace(baseURL),
		APIKey:     strings.TrimSpace(apiKey),
		Model:      strings.TrimSpace(model),
		HTTPClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	OutputText *string `json:"output_text"`
}

// Normalize sends text to the endpoint and returns the normalized form.
// Failures surface as errors; there is no silent fallback to the input.
func (n *Normalizer) Normalize(ctx context.Context, text string) (string, error) {
	if n.BaseURL == "" || n.APIKey == "" {
		return "", ErrNotConfigured
	}

	payload := chatRequest{
		Model: n.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(text)},
		},
		Temperature: 0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm: read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(parsed.Choices) > 0 {
		return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
	}
	if parsed.OutputText != nil {
		return strings.TrimSpace(*parsed.OutputText), nil
	}
	return "", errors.New("llm: unexpected response format")
}

func (n *Normalizer) client() *http.Client {
	if n.HTTPClient != nil {
		return n.HTTPClient
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// buildPrompt assembles the few-shot prompt around the user's text.
func buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nExamples:\n")
	for _, example := range fewShotExamples {
		fmt.Fprintf(&b, "Input: %s\nOutput: %s\n", example[0], example[1])
	}
	b.WriteString("\nNow normalize the following text:\n")
	fmt.Fprintf(&b, "Input: %s\nOutput:", text)
	return b.String()
}
