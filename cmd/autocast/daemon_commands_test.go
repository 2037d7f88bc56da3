package main

import (
	"path/filepath"
	"strings"
	"testing"

	"autocast/internal/uploads"
)

func TestDaemonStartAlreadyRunning(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	requireContains(t, out, "Daemon already running")
}

func TestDaemonStopNotRunning(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(env.baseDir, "missing.sock")
	out, _, err := runCLI(t, []string{"stop"}, missing, env.configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	requireContains(t, out, "Daemon is not running")
}

func TestDaemonStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	seedRecord(t, env.store, "Alpha", uploads.StatusPending)
	beta := seedRecord(t, env.store, "Beta", uploads.StatusFailed)
	if beta.Status != uploads.StatusFailed {
		t.Fatalf("expected failed seed, got %s", beta.Status)
	}

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "System Status")
	requireContains(t, out, "Running (pid")
	requireContains(t, out, "Not linked")
	requireContains(t, out, "Disarmed")
	requireContains(t, out, "Stage Health")
	requireContains(t, out, "Trend Scouting")
	requireContains(t, out, "Upload Status")
	requireContains(t, out, "Pending")
	requireContains(t, out, "Failed")
}

func TestDaemonStatusOffline(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(env.baseDir, "missing.sock")
	out, _, err := runCLI(t, []string{"status"}, missing, env.configPath)
	if err != nil {
		t.Fatalf("status offline: %v", err)
	}
	requireContains(t, out, "Not running")
	requireContains(t, out, "No uploads recorded")
	if strings.Contains(out, "Stage Health") {
		t.Fatalf("expected no stage health for offline daemon, got:\n%s", out)
	}
}
