package growth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"autocast/internal/uploads"
)

// Synthesizer fabricates trend metadata locally. It is the default provider:
// no network, tunable latency, and a failure rate for exercising the
// pipeline's error path.
type Synthesizer struct {
	latency     time.Duration
	failureRate float64
	sleeper     func(time.Duration)

	mu  sync.Mutex
	rng *rand.Rand
}

// SynthOption customizes the synthesizer.
type SynthOption func(*Synthesizer)

// WithRand overrides the random source (useful for deterministic tests).
func WithRand(rng *rand.Rand) SynthOption {
	return func(s *Synthesizer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSynthSleeper overrides how latency sleeps are performed (useful for tests).
func WithSynthSleeper(sleeper func(time.Duration)) SynthOption {
	return func(s *Synthesizer) {
		s.sleeper = sleeper
	}
}

// NewSynthesizer constructs a synthetic provider with the given simulated
// latency and failure rate. Rates outside [0, 1] are clamped.
func NewSynthesizer(latency time.Duration, failureRate float64, opts ...SynthOption) *Synthesizer {
	if failureRate < 0 {
		failureRate = 0
	}
	if failureRate > 1 {
		failureRate = 1
	}
	s := &Synthesizer{
		latency:     latency,
		failureRate: failureRate,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var trendAngles = []string{
	"hidden settings",
	"workflow shortcuts",
	"pricing changes",
	"beginner mistakes",
	"weekend projects",
	"release rumors",
	"automation recipes",
	"creator burnout",
	"niche benchmarks",
	"comeback stories",
}

var energeticTitleTemplates = []string{
	"%s Just Changed Everything",
	"Stop Ignoring %s",
	"Why Everyone Is Talking About %s",
	"%s in 60 Seconds",
	"The Truth About %s",
}

var measuredTitleTemplates = []string{
	"A Practical Look at %s",
	"What %s Actually Means",
	"Understanding %s",
	"%s, Explained Simply",
	"Notes on %s",
}

var sourceHosts = []string{
	"trendwire.dev",
	"pulseboard.io",
	"signalstack.net",
	"creatorgraph.app",
}

// FetchTrendAndMetadata fabricates a GrowthData bundle after the configured
// latency, or fails according to the configured failure rate.
func (s *Synthesizer) FetchTrendAndMetadata(ctx context.Context, req Request) (*GrowthData, error) {
	if err := s.sleep(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failureRate > 0 && s.rng.Float64() < s.failureRate {
		return nil, errors.New("synthetic trend feed returned no usable signals")
	}

	niche := strings.TrimSpace(req.Niche)
	if niche == "" {
		niche = "creator tools"
	}
	niche = strings.ReplaceAll(niche, "_", " ")

	angle := trendAngles[s.rng.IntN(len(trendAngles))]
	topic := niche + " " + angle

	templates := measuredTitleTemplates
	if strings.EqualFold(strings.TrimSpace(req.Tone), "energetic") {
		templates = energeticTitleTemplates
	}
	caser := cases.Title(language.English)
	title := fmt.Sprintf(templates[s.rng.IntN(len(templates))], caser.String(topic))

	data := &GrowthData{
		Title:       title,
		Description: s.describe(topic, req),
		TrendTopic:  topic,
		Sources:     s.pickSources(topic),
	}
	return data, nil
}

// HealthCheck always succeeds; the synthesizer has no external dependency.
func (s *Synthesizer) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Synthesizer) describe(topic string, req Request) string {
	lead := fmt.Sprintf("We dig into %s and what it means for your channel this week.", topic)
	switch req.Format {
	case uploads.FormatShort:
		return lead + " All of it in under a minute."
	case uploads.FormatLiveReplay:
		return lead + " Replayed from the latest live session with timestamps."
	default:
		return lead + " A full breakdown with examples you can copy today."
	}
}

func (s *Synthesizer) pickSources(topic string) []string {
	slug := strings.ReplaceAll(strings.ToLower(topic), " ", "-")
	count := 2 + s.rng.IntN(3)
	sources := make([]string, 0, count)
	seen := make(map[string]struct{}, count)
	for len(sources) < count {
		host := sourceHosts[s.rng.IntN(len(sourceHosts))]
		url := fmt.Sprintf("https://%s/signals/%s/%d", host, slug, 10000+s.rng.IntN(90000))
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		sources = append(sources, url)
	}
	return sources
}

func (s *Synthesizer) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if s.sleeper != nil {
		s.sleeper(delay)
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
