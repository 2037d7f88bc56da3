package main

import (
	"bytes"
	"strings"
	"testing"

	"autocast/internal/ipc"
)

func TestBuildUploadStatusRows(t *testing.T) {
	rows := buildUploadStatusRows(map[string]int{
		"uploaded": 3,
		"failed":   1,
		"pending":  2,
	})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// Keys render sorted so output stays stable across runs.
	if rows[0][0] != "Failed" || rows[0][1] != "1" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[1][0] != "Pending" || rows[2][0] != "Uploaded" {
		t.Fatalf("unexpected ordering %v", rows)
	}

	if got := buildUploadStatusRows(nil); got != nil {
		t.Fatalf("expected nil rows for empty stats, got %v", got)
	}
}

func TestBuildUploadListRowsNewestFirst(t *testing.T) {
	records := []ipc.UploadRecord{
		{ID: 1, Title: "Oldest", Status: "uploaded", Stage: "publishing", Format: "short", CreatedAt: "2026-02-10T10:00:00Z"},
		{ID: 3, Title: "", Status: "pending", Stage: "trend_scouting", Format: "short", CreatedAt: "2026-02-10T12:00:00Z"},
		{ID: 2, Title: "Middle", Status: "failed", Stage: "qc_validation", Format: "longform", CreatedAt: "2026-02-10T11:00:00Z"},
	}
	rows := buildUploadListRows(records)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "3" || rows[1][0] != "2" || rows[2][0] != "1" {
		t.Fatalf("expected newest-first ordering, got %v", rows)
	}
	if rows[0][1] != "Untitled" {
		t.Fatalf("expected blank title fallback, got %q", rows[0][1])
	}
	if rows[1][2] != "Failed" || rows[1][3] != "Qc Validation" || rows[1][4] != "Longform" {
		t.Fatalf("unexpected label formatting %v", rows[1])
	}
	if rows[2][5] != "2026-02-10 10:00" {
		t.Fatalf("unexpected created column %q", rows[2][5])
	}
}

func TestPrintUploadDetailSkipsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	printUploadDetail(&buf, ipc.UploadRecord{
		ID:       4,
		PublicID: "pub-4",
		Title:    "Alpha",
		Status:   "pending",
		Stage:    "trend_scouting",
		Format:   "short",
	})
	out := buf.String()
	requireContains(t, out, "Upload #4 (pub-4)")
	requireContains(t, out, "Title: Alpha")
	for _, absent := range []string{"Topic:", "Views:", "Error:", "Description:"} {
		if strings.Contains(out, absent) {
			t.Fatalf("expected %q to be omitted, got:\n%s", absent, out)
		}
	}
}

func TestFormatStatusLabel(t *testing.T) {
	cases := map[string]string{
		"trend_scouting": "Trend Scouting",
		"uploaded":       "Uploaded",
		"live_replay":    "Live Replay",
		"":               "",
	}
	for input, want := range cases {
		if got := formatStatusLabel(input); got != want {
			t.Fatalf("formatStatusLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatDisplayTime(t *testing.T) {
	if got := formatDisplayTime("2026-02-11T08:30:45Z"); got != "2026-02-11 08:30" {
		t.Fatalf("unexpected display time %q", got)
	}
	if got := formatDisplayTime("not-a-time"); got != "not-a-time" {
		t.Fatalf("expected raw value passthrough, got %q", got)
	}
	if got := formatDisplayTime("  "); got != "" {
		t.Fatalf("expected empty result for blank input, got %q", got)
	}
}
