package channel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"autocast/internal/logging"
	"autocast/internal/services"
)

// State describes the gate's position in the link lifecycle.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// Info is a point-in-time snapshot of the gate.
type Info struct {
	State       State
	Credential  string
	ChannelName string
	Handle      string
	LinkedAt    *time.Time
}

// Listener receives a snapshot after every gate transition.
type Listener func(Info)

// Gate is the tri-state connection precondition for automatic uploads. A
// connect attempt passes through connecting for a simulated link latency
// before resolving; disconnecting is immediate and invalidates any attempt
// still in flight.
type Gate struct {
	latency  time.Duration
	provider Provider
	logger   *slog.Logger
	sleeper  func(time.Duration)

	mu           sync.Mutex
	state        State
	credential   string
	account      *Account
	linkedAt     time.Time
	attempt      uint64
	listeners    map[uint64]Listener
	nextListener uint64
}

// Option configures optional Gate behavior.
type Option func(*Gate)

// WithProvider overrides the link handshake provider.
func WithProvider(provider Provider) Option {
	return func(g *Gate) {
		if provider != nil {
			g.provider = provider
		}
	}
}

// WithLogger attaches a logger for transition events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logging.NewComponentLogger(logger, "channel")
		}
	}
}

// WithSleeper overrides how the link latency wait is performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(g *Gate) {
		g.sleeper = sleeper
	}
}

// New constructs a disconnected gate with the given simulated link latency.
func New(latency time.Duration, opts ...Option) *Gate {
	g := &Gate{
		latency:   latency,
		provider:  SimulatedProvider{},
		logger:    logging.NewNop(),
		state:     StateDisconnected,
		listeners: make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Connect links the channel using the supplied credential. The gate moves to
// connecting immediately and resolves to connected after the link latency and
// provider handshake. Any failure or cancellation returns the gate to
// disconnected. Connecting while a link exists or another attempt is in
// flight is an error.
func (g *Gate) Connect(ctx context.Context, credential string) (Info, error) {
	g.mu.Lock()
	switch g.state {
	case StateConnecting:
		g.mu.Unlock()
		return Info{}, services.Wrap(services.ErrConnection, "channel", "connect", "Connect attempt already in progress", nil)
	case StateConnected:
		g.mu.Unlock()
		return Info{}, services.Wrap(services.ErrConnection, "channel", "connect", "Channel already linked; disconnect first", nil)
	}
	g.state = StateConnecting
	g.credential = credential
	g.attempt++
	token := g.attempt
	info := g.snapshotLocked()
	g.mu.Unlock()
	g.notify(info)

	if err := g.sleep(ctx, g.latency); err != nil {
		g.abandonAttempt(token)
		return Info{}, services.Wrap(services.ErrConnection, "channel", "connect", "Connect attempt abandoned", err)
	}

	account, err := g.provider.Connect(ctx, credential)
	if err != nil {
		g.abandonAttempt(token)
		return Info{}, services.Wrap(services.ErrConnection, "channel", "connect", "Channel link rejected", err)
	}

	g.mu.Lock()
	if g.attempt != token || g.state != StateConnecting {
		g.mu.Unlock()
		return Info{}, services.Wrap(services.ErrConnection, "channel", "connect", "Connect attempt superseded by disconnect", nil)
	}
	g.state = StateConnected
	g.account = account
	g.linkedAt = time.Now().UTC()
	info = g.snapshotLocked()
	g.mu.Unlock()
	g.notify(info)

	g.logger.Info("channel linked",
		logging.String("handle", account.Handle),
		logging.String("channel_name", account.Name),
	)
	return info, nil
}

// Disconnect returns the gate to disconnected. It is a no-op when already
// disconnected; an in-flight connect attempt is invalidated.
func (g *Gate) Disconnect() {
	g.mu.Lock()
	if g.state == StateDisconnected {
		g.mu.Unlock()
		return
	}
	g.state = StateDisconnected
	g.credential = ""
	g.account = nil
	g.linkedAt = time.Time{}
	g.attempt++
	info := g.snapshotLocked()
	g.mu.Unlock()
	g.notify(info)

	g.logger.Info("channel disconnected")
}

// Info returns the current gate snapshot.
func (g *Gate) Info() Info {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// State returns the current gate state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Connected reports whether the gate currently holds a link.
func (g *Gate) Connected() bool {
	return g.State() == StateConnected
}

// Subscribe registers a listener invoked after every transition. The returned
// cancel function removes it.
func (g *Gate) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	g.mu.Lock()
	g.nextListener++
	id := g.nextListener
	g.listeners[id] = listener
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

func (g *Gate) abandonAttempt(token uint64) {
	g.mu.Lock()
	if g.attempt != token || g.state != StateConnecting {
		g.mu.Unlock()
		return
	}
	g.state = StateDisconnected
	g.credential = ""
	info := g.snapshotLocked()
	g.mu.Unlock()
	g.notify(info)
}

func (g *Gate) snapshotLocked() Info {
	info := Info{
		State:      g.state,
		Credential: g.credential,
	}
	if g.account != nil {
		info.ChannelName = g.account.Name
		info.Handle = g.account.Handle
	}
	if !g.linkedAt.IsZero() {
		linked := g.linkedAt
		info.LinkedAt = &linked
	}
	return info
}

// notify invokes listeners outside the gate lock so they may call back in.
func (g *Gate) notify(info Info) {
	g.mu.Lock()
	listeners := make([]Listener, 0, len(g.listeners))
	for _, listener := range g.listeners {
		listeners = append(listeners, listener)
	}
	g.mu.Unlock()

	for _, listener := range listeners {
		listener(info)
	}
}

func (g *Gate) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if g.sleeper != nil {
		g.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
