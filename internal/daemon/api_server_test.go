package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"autocast/internal/api"
	"autocast/internal/autopilot"
	"autocast/internal/channel"
	"autocast/internal/logging"
	"autocast/internal/pipeline"
	"autocast/internal/services/growth"
	"autocast/internal/testsupport"
	"autocast/internal/uploads"
)

func newHandlerFixture(t *testing.T) (*Daemon, *uploads.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t)
	gate := channel.New(0, channel.WithLogger(logging.NewNop()))
	engine := pipeline.New(cfg, store, growth.NewSynthesizer(0, 0), logging.NewNop())
	manager := autopilot.New(cfg, store, gate, engine, logging.NewNop())
	d, err := New(cfg, store, gate, engine, manager, logging.NewNop(), "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, store
}

func TestAPIServerHandleUploads(t *testing.T) {
	d, store := newHandlerFixture(t)
	first := testsupport.NewRecord(t, store, uploads.FormatShort)
	if err := first.MarkFailed("link down"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if err := store.Update(context.Background(), first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	second := testsupport.NewRecord(t, store, uploads.FormatLongform)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	w := httptest.NewRecorder()
	d.api.handleUploads(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.UploadListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Records))
	}
	if resp.Records[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", resp.Records)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/uploads?status=failed", nil)
	w = httptest.NewRecorder()
	d.api.handleUploads(w, req)
	resp = api.UploadListResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode filtered response: %v", err)
	}
	if len(resp.Records) != 1 || resp.Records[0].ID != first.ID {
		t.Fatalf("expected failed record only, got %+v", resp.Records)
	}
}

func TestAPIServerHandleUploadItem(t *testing.T) {
	d, store := newHandlerFixture(t)
	record := testsupport.NewRecord(t, store, uploads.FormatShort)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/uploads/%d", record.ID), nil)
	w := httptest.NewRecorder()
	d.api.handleUploadItem(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.UploadRecordResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Record.ID != record.ID || resp.Record.PublicID != record.PublicID {
		t.Fatalf("unexpected record: %+v", resp.Record)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/uploads/999", nil)
	w = httptest.NewRecorder()
	d.api.handleUploadItem(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/uploads/not-a-number", nil)
	w = httptest.NewRecorder()
	d.api.handleUploadItem(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestAPIServerHandleStatus(t *testing.T) {
	d, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	d.api.handleStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp api.DaemonStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Running {
		t.Fatal("expected not running before Start")
	}
	if resp.Channel.State != string(channel.StateDisconnected) {
		t.Fatalf("unexpected channel state: %q", resp.Channel.State)
	}
	if resp.Scheduler.Period <= 0 {
		t.Fatalf("expected positive period, got %d", resp.Scheduler.Period)
	}
	if len(resp.StageHealth) != len(uploads.AllStages()) {
		t.Fatalf("expected %d stage health entries, got %d", len(uploads.AllStages()), len(resp.StageHealth))
	}

	req = httptest.NewRequest(http.MethodPost, "/api/status", nil)
	w = httptest.NewRecorder()
	d.api.handleStatus(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	handler := authMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	passthrough := authMiddleware("", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w = httptest.NewRecorder()
	passthrough(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth configured, got %d", w.Code)
	}
}
