package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestNormalizeChatShape checks request headers, payload, and parsing.
func TestNormalizeChatShape(t *testing.T) {
	var captured struct {
		auth        string
		contentType string
		body        chatRequest
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.auth = r.Header.Get("Authorization")
		captured.contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &captured.body); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		io.WriteString(w, `{"choices":[{"message":{"content":"  I do not know  "}}]}`)
	}))
	defer server.Close()

	client := NewNormalizer(server.URL, "secret-key", "test-model")
	got, err := client.Normalize(context.Background(), "I na know")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "I do not know" {
		t.Fatalf("Normalize() = %q, want trimmed content", got)
	}

	if captured.auth != "Bearer secret-key" {
		t.Fatalf("Authorization = %q", captured.auth)
	}
	if captured.contentType != "application/json" {
		t.Fatalf("Content-Type = %q", captured.contentType)
	}
	if captured.body.Model != "test-model" {
		t.Fatalf("model = %q", captured.body.Model)
	}
	if captured.body.Temperature != 0 {
		t.Fatalf("temperature = %v, want 0", captured.body.Temperature)
	}
	if len(captured.body.Messages) != 2 || captured.body.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.body.Messages)
	}
	userPrompt := captured.body.Messages[1].Content
	if !strings.Contains(userPrompt, "Input: I na know\nOutput:") {
		t.Fatalf("user prompt missing the text to normalize: %q", userPrompt)
	}
	if !strings.Contains(userPrompt, "We are going to the market tomorrow") {
		t.Fatalf("user prompt missing few-shot examples: %q", userPrompt)
	}
}

// TestNormalizeOutputTextShape checks the alternate response shape.
func TestNormalizeOutputTextShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"output_text":"He said he is not coming today"}`)
	}))
	defer server.Close()

	got, err := NewNormalizer(server.URL, "secret-key", "").Normalize(context.Background(), "He say he na coming today")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "He said he is not coming today" {
		t.Fatalf("Normalize() = %q", got)
	}
}

// TestNormalizeHTTPError checks non-2xx responses become APIError.
func TestNormalizeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	_, err := NewNormalizer(server.URL, "secret-key", "").Normalize(context.Background(), "I na know")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "rate limited") {
		t.Fatalf("error text = %q, want the response body included", apiErr.Error())
	}
}

// TestNormalizeUnexpectedShape checks an unrecognized body is an error.
func TestNormalizeUnexpectedShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"result":"something else"}`)
	}))
	defer server.Close()

	_, err := NewNormalizer(server.URL, "secret-key", "").Normalize(context.Background(), "I na know")
	if err == nil || !strings.Contains(err.Error(), "unexpected response format") {
		t.Fatalf("error = %v, want unexpected format", err)
	}
}

// TestNormalizeMissingConfig checks the client refuses to run half-configured.
func TestNormalizeMissingConfig(t *testing.T) {
	cases := []struct {
		name    string
		baseURL string
		apiKey  string
	}{
		{"no url", "", "secret-key"},
		{"no key", "http://localhost:9999", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNormalizer(tc.baseURL, tc.apiKey, "").Normalize(context.Background(), "I na know")
			if !errors.Is(err, ErrNotConfigured) {
				t.Fatalf("error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

// TestNormalizeDefaultModel checks the model fallback.
func TestNormalizeDefaultModel(t *testing.T) {
	client := NewNormalizer("http://localhost:9999", "secret-key", "  ")
	if client.Model != "gpt-4o-mini" {
		t.Fatalf("Model = %q, want the default", client.Model)
	}
}
