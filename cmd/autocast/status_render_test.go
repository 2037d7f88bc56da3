package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"autocast/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestStageHealthLines(t *testing.T) {
	stages := []ipc.StageHealth{
		{Name: "trend_scouting", Ready: true},
		{Name: "neural_rendering", Ready: false, Detail: "renderer offline"},
	}
	lines := stageHealthLines(stages, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Trend Scouting") || !strings.Contains(lines[0], "[OK] Ready") {
		t.Fatalf("expected ready line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Neural Rendering") || !strings.Contains(lines[1], "[WARN] renderer offline") {
		t.Fatalf("expected warn detail in second line, got %q", lines[1])
	}
}

func TestChannelStatusLineStates(t *testing.T) {
	connected := channelStatusLine(ipc.ChannelStatus{
		State:       "connected",
		ChannelName: "Studio Operator",
		Handle:      "@studio-operator",
	}, false)
	if !strings.Contains(connected, "[OK] Linked to Studio Operator (@studio-operator)") {
		t.Fatalf("unexpected connected line %q", connected)
	}

	connecting := channelStatusLine(ipc.ChannelStatus{State: "connecting"}, false)
	if !strings.Contains(connecting, "[WARN] Linking...") {
		t.Fatalf("unexpected connecting line %q", connecting)
	}

	idle := channelStatusLine(ipc.ChannelStatus{State: "disconnected"}, false)
	if !strings.Contains(idle, "[INFO] Not linked") {
		t.Fatalf("unexpected disconnected line %q", idle)
	}
}

func TestLastRunLine(t *testing.T) {
	failed := lastRunLine(&ipc.RunOutcome{
		RecordID:   7,
		Title:      "Alpha",
		Status:     "failed",
		FinishedAt: "2026-02-11T08:30:00Z",
		Message:    "render quota exhausted",
	}, false)
	if !strings.Contains(failed, "[ERROR]") {
		t.Fatalf("expected error kind, got %q", failed)
	}
	if !strings.Contains(failed, `#7 "Alpha" Failed at 2026-02-11 08:30: render quota exhausted`) {
		t.Fatalf("unexpected failed detail %q", failed)
	}

	uploaded := lastRunLine(&ipc.RunOutcome{RecordID: 8, Status: "uploaded"}, false)
	if !strings.Contains(uploaded, "[OK]") || !strings.Contains(uploaded, "#8 Uploaded") {
		t.Fatalf("unexpected uploaded detail %q", uploaded)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
