package channel_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"autocast/internal/channel"
	"autocast/internal/services"
)

func TestConnectTransitionsThroughConnecting(t *testing.T) {
	var slept []time.Duration
	gate := channel.New(1200*time.Millisecond, channel.WithSleeper(func(d time.Duration) {
		slept = append(slept, d)
	}))

	var mu sync.Mutex
	var states []channel.State
	cancel := gate.Subscribe(func(info channel.Info) {
		mu.Lock()
		states = append(states, info.State)
		mu.Unlock()
	})
	defer cancel()

	info, err := gate.Connect(context.Background(), "studio-operator")
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	if info.State != channel.StateConnected {
		t.Fatalf("expected connected state, got %s", info.State)
	}
	if info.ChannelName != "Studio Operator" || info.Handle != "@studio-operator" {
		t.Fatalf("unexpected account identity: %#v", info)
	}
	if info.LinkedAt == nil {
		t.Fatal("expected linked timestamp")
	}
	if len(slept) != 1 || slept[0] != 1200*time.Millisecond {
		t.Fatalf("expected single link latency sleep, got %v", slept)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 || states[0] != channel.StateConnecting || states[1] != channel.StateConnected {
		t.Fatalf("expected connecting then connected notifications, got %v", states)
	}
}

func TestConnectWhileConnectedFails(t *testing.T) {
	gate := channel.New(0)
	if _, err := gate.Connect(context.Background(), "studio-operator"); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}

	_, err := gate.Connect(context.Background(), "second-credential")
	if err == nil {
		t.Fatal("expected error when already connected")
	}
	if !errors.Is(err, services.ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if gate.State() != channel.StateConnected {
		t.Fatalf("expected gate to stay connected, got %s", gate.State())
	}
}

func TestConnectRejectsBlankCredential(t *testing.T) {
	gate := channel.New(0)

	_, err := gate.Connect(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected error for blank credential")
	}
	if !errors.Is(err, services.ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if gate.State() != channel.StateDisconnected {
		t.Fatalf("expected gate back at disconnected, got %s", gate.State())
	}
}

func TestConnectCancelledDuringLatency(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gate := channel.New(time.Hour)
	_, err := gate.Connect(ctx, "studio-operator")
	if err == nil {
		t.Fatal("expected error for cancelled connect")
	}
	if !errors.Is(err, services.ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if gate.State() != channel.StateDisconnected {
		t.Fatalf("expected gate back at disconnected, got %s", gate.State())
	}
}

type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) Connect(ctx context.Context, credential string) (*channel.Account, error) {
	close(p.entered)
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &channel.Account{Name: "Blocked", Handle: "@blocked"}, nil
}

func TestDisconnectInvalidatesInFlightConnect(t *testing.T) {
	provider := &blockingProvider{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	gate := channel.New(0, channel.WithProvider(provider))

	errCh := make(chan error, 1)
	go func() {
		_, err := gate.Connect(context.Background(), "studio-operator")
		errCh <- err
	}()

	<-provider.entered
	gate.Disconnect()
	close(provider.release)

	err := <-errCh
	if err == nil {
		t.Fatal("expected superseded connect to fail")
	}
	if !errors.Is(err, services.ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if gate.State() != channel.StateDisconnected {
		t.Fatalf("expected disconnected state, got %s", gate.State())
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	gate := channel.New(0)

	var notifications int
	cancel := gate.Subscribe(func(channel.Info) { notifications++ })
	defer cancel()

	gate.Disconnect()
	gate.Disconnect()
	if notifications != 0 {
		t.Fatalf("expected no notifications for no-op disconnects, got %d", notifications)
	}

	if _, err := gate.Connect(context.Background(), "studio-operator"); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	gate.Disconnect()
	if gate.State() != channel.StateDisconnected {
		t.Fatalf("expected disconnected, got %s", gate.State())
	}
	info := gate.Info()
	if info.ChannelName != "" || info.LinkedAt != nil {
		t.Fatalf("expected cleared identity after disconnect, got %#v", info)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	gate := channel.New(0)

	var notifications int
	cancel := gate.Subscribe(func(channel.Info) { notifications++ })

	if _, err := gate.Connect(context.Background(), "studio-operator"); err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	seen := notifications
	if seen == 0 {
		t.Fatal("expected notifications while subscribed")
	}

	cancel()
	gate.Disconnect()
	if notifications != seen {
		t.Fatalf("expected no notifications after unsubscribe, got %d (was %d)", notifications, seen)
	}
}
