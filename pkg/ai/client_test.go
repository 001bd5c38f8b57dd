package ai

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteMissingCredential(t *testing.T) {
	c := NewGeminiClient("https://example.com", "", "gemini-3-flash-preview")

	_, err := c.Complete("hi", false)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestCompleteSuccess(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{"parts": []map[string]string{{"text": "generated text"}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-3-flash-preview")
	text, err := c.Complete("the prompt", true)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "generated text" {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/v1beta/models/gemini-3-flash-preview:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "the prompt" {
		t.Errorf("request body = %+v", gotBody)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("wantJSON must set responseMimeType, got %+v", gotBody.GenerationConfig)
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-3-flash-preview")
	_, err := c.Complete("hi", false)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want TransportError", err)
	}
}

func TestCompleteEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient(srv.URL, "test-key", "gemini-3-flash-preview")
	_, err := c.Complete("hi", false)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ParseError", err)
	}
}

func TestNewGeminiClientNormalizesURL(t *testing.T) {
	c := NewGeminiClient("generativelanguage.googleapis.com/", "k", "m")
	if c.baseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
