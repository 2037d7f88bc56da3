package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"autocast/internal/uploads"
)

func TestUploadsListAndHealth(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	seedRecord(t, env.store, "Alpha", uploads.StatusPending)
	beta := seedRecord(t, env.store, "Beta", uploads.StatusFailed)
	beta.ErrorMessage = "render quota exhausted"
	if err := env.store.Update(ctx, beta); err != nil {
		t.Fatalf("update beta: %v", err)
	}

	out, _, err := runCLI(t, []string{"uploads", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads list: %v", err)
	}
	requireContains(t, out, "Alpha")
	requireContains(t, out, "Beta")
	requireContains(t, out, "Failed")

	out, _, err = runCLI(t, []string{"uploads", "list", "--status", "failed"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads list --status: %v", err)
	}
	requireContains(t, out, "Beta")
	if strings.Contains(out, "Alpha") {
		t.Fatalf("expected only failed records, got:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"uploads", "health"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads health: %v", err)
	}
	requireContains(t, out, "Total: 2")
	requireContains(t, out, "Pending: 1")
	requireContains(t, out, "Failed: 1")
}

func TestUploadsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"uploads", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads list empty: %v", err)
	}
	requireContains(t, out, "No uploads recorded")
}

func TestUploadsListJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	seedRecord(t, env.store, "Alpha", uploads.StatusPending)
	seedRecord(t, env.store, "Beta", uploads.StatusUploaded)

	out, _, err := runCLI(t, []string{"uploads", "list", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads list --json: %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, record := range records {
		if _, ok := record["id"]; !ok {
			t.Fatal("missing 'id' key in JSON record")
		}
		if _, ok := record["status"]; !ok {
			t.Fatal("missing 'status' key in JSON record")
		}
	}
}

func TestUploadsListJSONEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"uploads", "list", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads list --json empty: %v", err)
	}

	var records []any
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty array, got %d records", len(records))
	}
}

func TestUploadsShow(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	record := seedRecord(t, env.store, "Morning Focus Routine", uploads.StatusUploaded)
	record.TrendTopic = "focus rituals"
	record.Sources = []string{"https://example.com/a", "https://example.com/b"}
	record.Metrics = &uploads.Metrics{Views: 1200, Engagement: 0.451}
	if err := env.store.Update(ctx, record); err != nil {
		t.Fatalf("update record: %v", err)
	}

	out, _, err := runCLI(t, []string{"uploads", "show", fmt.Sprintf("%d", record.ID)}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads show: %v", err)
	}
	requireContains(t, out, fmt.Sprintf("Upload #%d", record.ID))
	requireContains(t, out, "Title: Morning Focus Routine")
	requireContains(t, out, "Status: Uploaded")
	requireContains(t, out, "Topic: focus rituals")
	requireContains(t, out, "Source: https://example.com/a")
	requireContains(t, out, "Views: 1200")
	requireContains(t, out, "Engagement: 0.451")
}

func TestUploadsShowJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	record := seedRecord(t, env.store, "Alpha", uploads.StatusPending)

	out, _, err := runCLI(t, []string{"uploads", "show", fmt.Sprintf("%d", record.ID), "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads show --json: %v", err)
	}

	var detail map[string]any
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if detail["id"] != float64(record.ID) {
		t.Fatalf("expected id %d, got %v", record.ID, detail["id"])
	}
	if detail["title"] != "Alpha" {
		t.Fatalf("expected title Alpha, got %v", detail["title"])
	}
}

func TestUploadsShowNotFound(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"uploads", "show", "9999"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads show not found: %v", err)
	}
	requireContains(t, out, "Upload 9999 not found")

	out, _, err = runCLI(t, []string{"uploads", "show", "9999", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads show --json not found: %v", err)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	if result["error"] != "not_found" {
		t.Fatalf("expected error=not_found, got %v", result["error"])
	}
}

func TestUploadsShowInvalidID(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"uploads", "show", "abc"}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid upload id") {
		t.Fatalf("expected invalid id error, got %v", err)
	}
}

func TestUploadsHealthJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	seedRecord(t, env.store, "Alpha", uploads.StatusUploaded)

	out, _, err := runCLI(t, []string{"uploads", "health", "--json"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads health --json: %v", err)
	}

	var health map[string]any
	if err := json.Unmarshal([]byte(out), &health); err != nil {
		t.Fatalf("invalid JSON: %v\noutput: %s", err, out)
	}
	for _, key := range []string{"total", "pending", "processing", "uploaded", "failed"} {
		if _, ok := health[key]; !ok {
			t.Fatalf("missing %q key in health JSON", key)
		}
	}
	if health["total"] != float64(1) {
		t.Fatalf("expected total=1, got %v", health["total"])
	}
}

func TestUploadsPruneAndClear(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	seedRecord(t, env.store, "Oldest", uploads.StatusUploaded)
	seedRecord(t, env.store, "Middle", uploads.StatusUploaded)
	seedRecord(t, env.store, "Newest", uploads.StatusUploaded)

	out, _, err := runCLI(t, []string{"uploads", "prune", "--keep", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads prune: %v", err)
	}
	requireContains(t, out, "Pruned 2 uploads (kept newest 1)")

	count, err := env.store.Count(ctx)
	if err != nil {
		t.Fatalf("count after prune: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record after prune, got %d", count)
	}

	out, _, err = runCLI(t, []string{"uploads", "clear"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 uploads")

	out, _, err = runCLI(t, []string{"uploads", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads list after clear: %v", err)
	}
	requireContains(t, out, "No uploads recorded")
}

func TestUploadsPruneUnboundedRetention(t *testing.T) {
	env := setupCLITestEnv(t)

	seedRecord(t, env.store, "Alpha", uploads.StatusUploaded)

	out, _, err := runCLI(t, []string{"uploads", "prune"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("uploads prune unbounded: %v", err)
	}
	requireContains(t, out, "Retention is unbounded; pass --keep to prune")
}
