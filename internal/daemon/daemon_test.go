package daemon_test

import (
	"context"
	"testing"
	"time"

	"autocast/internal/autopilot"
	"autocast/internal/channel"
	"autocast/internal/config"
	"autocast/internal/daemon"
	"autocast/internal/logging"
	"autocast/internal/pipeline"
	"autocast/internal/services/growth"
	"autocast/internal/testsupport"
	"autocast/internal/uploads"
)

func newTestDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	store := testsupport.MustOpenStore(t)
	gate := channel.New(0, channel.WithLogger(logging.NewNop()))
	engine := pipeline.New(cfg, store, growth.NewSynthesizer(0, 0), logging.NewNop())
	manager := autopilot.New(cfg, store, gate, engine, logging.NewNop())
	d, err := daemon.New(cfg, store, gate, engine, manager, logging.NewNop(), "")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.PID <= 0 {
		t.Fatalf("expected pid, got %d", status.PID)
	}
	if !status.Scheduler.Running {
		t.Fatal("expected scheduler running")
	}
	if status.Channel.State != channel.StateDisconnected {
		t.Fatalf("expected disconnected gate, got %s", status.Channel.State)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newTestDaemon(t, cfg)
	second := newTestDaemon(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to fail on lock")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("second instance after release failed: %v", err)
	}
	second.Stop()
}

func TestDaemonRunFlow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d := newTestDaemon(t, cfg)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	info, err := d.ConnectChannel(ctx, "")
	if err != nil {
		t.Fatalf("ConnectChannel failed: %v", err)
	}
	if info.Credential != cfg.Channel.DefaultCredential {
		t.Fatalf("expected default credential, got %q", info.Credential)
	}

	outcome, err := d.TriggerRun(ctx)
	if err != nil {
		t.Fatalf("TriggerRun failed: %v", err)
	}
	if !outcome.Started() {
		t.Fatalf("expected run started, got %s", outcome)
	}

	deadline := time.After(5 * time.Second)
	for {
		records, err := d.ListUploads(ctx, nil)
		if err != nil {
			t.Fatalf("ListUploads failed: %v", err)
		}
		if len(records) == 1 && records[0].Status == uploads.StatusUploaded {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for run to publish")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	health, err := d.UploadsHealth(ctx)
	if err != nil {
		t.Fatalf("UploadsHealth failed: %v", err)
	}
	if health.Total != 1 || health.Uploaded != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}

	d.DisconnectChannel()
	if d.ChannelInfo().State != channel.StateDisconnected {
		t.Fatal("expected disconnected after DisconnectChannel")
	}
}
