package growth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autocast/internal/uploads"
)

func trendResponse(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{
					"content": content,
				},
			},
		},
	}
}

func TestClientFetchTrendAndMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Fatalf("unexpected authorization header %q", got)
		}
		var payload chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Messages) != 2 || !strings.Contains(payload.Messages[1].Content, "niche: diy") {
			t.Fatalf("expected scoped user prompt, got %#v", payload.Messages)
		}
		body := `{"title":"Workshop Math That Saves Money","description":"Measuring twice, once.","trend_topic":"diy cost cutting","sources":["https://trendwire.dev/a"]}`
		if err := json.NewEncoder(w).Encode(trendResponse(body)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	data, err := client.FetchTrendAndMetadata(context.Background(), Request{
		Niche:  "diy",
		Tone:   "calm",
		Format: uploads.FormatLongform,
	})
	if err != nil {
		t.Fatalf("FetchTrendAndMetadata returned error: %v", err)
	}
	if data.Title != "Workshop Math That Saves Money" {
		t.Fatalf("unexpected title %q", data.Title)
	}
	if data.TrendTopic != "diy cost cutting" {
		t.Fatalf("unexpected trend topic %q", data.TrendTopic)
	}
	if len(data.Sources) != 1 || data.Sources[0] != "https://trendwire.dev/a" {
		t.Fatalf("unexpected sources %v", data.Sources)
	}
}

func TestClientFetchHandlesCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := "```json\n{\"title\":\"T\",\"description\":\"D\",\"trend_topic\":\"topic\",\"sources\":[]}\n```"
		if err := json.NewEncoder(w).Encode(trendResponse(body)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	data, err := client.FetchTrendAndMetadata(context.Background(), Request{Niche: "diy"})
	if err != nil {
		t.Fatalf("FetchTrendAndMetadata returned error: %v", err)
	}
	if data.Title != "T" || data.TrendTopic != "topic" {
		t.Fatalf("unexpected bundle %#v", data)
	}
}

func TestClientFetchRejectsMissingTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"title":"","description":"D","trend_topic":"topic","sources":[]}`
		if err := json.NewEncoder(w).Encode(trendResponse(body)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if _, err := client.FetchTrendAndMetadata(context.Background(), Request{Niche: "diy"}); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestClientFetchRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	if _, err := client.FetchTrendAndMetadata(context.Background(), Request{Niche: "diy"}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		body := `{"title":"T","description":"D","trend_topic":"topic","sources":[]}`
		_ = json.NewEncoder(w).Encode(trendResponse(body))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	data, err := client.FetchTrendAndMetadata(context.Background(), Request{Niche: "diy"})
	if err != nil {
		t.Fatalf("FetchTrendAndMetadata returned error: %v", err)
	}
	if data.Title != "T" {
		t.Fatalf("unexpected title %q", data.Title)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientDoesNotRetryClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "bad", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.FetchTrendAndMetadata(context.Background(), Request{Niche: "diy"}); err == nil {
		t.Fatal("expected error for 401")
	}
	if calls != 1 {
		t.Fatalf("expected single call for 401, got %d", calls)
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(trendResponse(`{"ok":true}`)); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		content := ""
		if calls >= 3 {
			content = `{"title":"T","description":"D","trend_topic":"topic","sources":[]}`
		}
		_ = json.NewEncoder(w).Encode(trendResponse(content))
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	data, err := client.FetchTrendAndMetadata(context.Background(), Request{Niche: "diy"})
	if err != nil {
		t.Fatalf("FetchTrendAndMetadata returned error: %v", err)
	}
	if data.Title != "T" {
		t.Fatalf("unexpected title %q", data.Title)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}
