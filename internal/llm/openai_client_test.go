// ABOUTME: Tests for the OpenAI drafting client
// ABOUTME: Serves fake chat completions from an httptest server
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/review-console/internal/config"
)

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   DefaultChatModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	cfg.MaxRetries = retries
	cfg.RetryDelay = time.Millisecond
	client, err := NewOpenAIClientWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	return client
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("NewOpenAIClient(\"\") error = %v, want ErrNoAPIKey", err)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		OpenAIKey:     "k",
		OpenAIBaseURL: "http://localhost:9999/v1",
		ChatModel:     "gpt-test",
		Timeout:       5 * time.Second,
		MaxRetries:    1,
		RetryDelay:    time.Second,
	}
	cc := ConfigFrom(cfg)
	if cc.APIKey != "k" || cc.BaseURL != cfg.OpenAIBaseURL || cc.ChatModel != "gpt-test" {
		t.Errorf("ConfigFrom() = %+v", cc)
	}
	if cc.Timeout != 5*time.Second || cc.MaxRetries != 1 {
		t.Errorf("ConfigFrom() = %+v", cc)
	}
}

func TestDraftConsiderations(t *testing.T) {
	var gotPrompt string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) == 2 {
			gotPrompt = req.Messages[1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("  Good positioning on the offside call.  "))
	}, 0)

	got, err := client.DraftConsiderations(context.Background(), "Offside: Offside\n")
	if err != nil {
		t.Fatalf("DraftConsiderations() error = %v", err)
	}
	if got != "Good positioning on the offside call." {
		t.Errorf("DraftConsiderations() = %q", got)
	}
	if !strings.Contains(gotPrompt, "Offside: Offside") {
		t.Errorf("user prompt = %q, want summary included", gotPrompt)
	}
}

func TestDraftConsiderations_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(completion("note"))
	}, 2)

	got, err := client.DraftConsiderations(context.Background(), "summary")
	if err != nil {
		t.Fatalf("DraftConsiderations() error = %v", err)
	}
	if got != "note" {
		t.Errorf("DraftConsiderations() = %q, want note", got)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestDraftConsiderations_GivesUp(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(""))
	}, 1)

	_, err := client.DraftConsiderations(context.Background(), "summary")
	if err == nil {
		t.Fatal("DraftConsiderations() should fail on empty completions")
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}
