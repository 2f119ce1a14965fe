package pipeline

import (
	"context"
	"sync"
	"time"
)

const (
	defaultProgressInterval = 150 * time.Millisecond
	defaultProgressCeiling  = 95.0
	defaultProgressFactor   = 0.12
)

// TickerFactory supplies the clock driving simulated progress: a tick
// channel and a release function. Tests substitute a channel they control.
type TickerFactory func(time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Progress publishes a simulated completion percentage for a pending
// recognition call. The value starts at zero, increases monotonically while
// running, and approaches a ceiling without reaching it. Finish stops the
// ticking and resets the value to zero whether the call succeeded or failed.
type Progress struct {
	mu      sync.Mutex
	value   float64
	running bool
	done    chan struct{}

	interval time.Duration
	ceiling  float64
	factor   float64
	ticker   TickerFactory
}

// ProgressOption configures a Progress.
type ProgressOption func(*Progress)

// WithInterval sets the time between simulated increments.
func WithInterval(d time.Duration) ProgressOption {
	return func(p *Progress) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithStep sets the fraction of the remaining headroom consumed per tick.
func WithStep(factor float64) ProgressOption {
	return func(p *Progress) {
		if factor > 0 && factor < 1 {
			p.factor = factor
		}
	}
}

// WithCeiling sets the value the simulation approaches while pending.
func WithCeiling(ceiling float64) ProgressOption {
	return func(p *Progress) {
		if ceiling > 0 && ceiling <= 100 {
			p.ceiling = ceiling
		}
	}
}

// WithTickerFactory overrides the clock, letting tests drive ticks manually.
func WithTickerFactory(factory TickerFactory) ProgressOption {
	return func(p *Progress) {
		if factory != nil {
			p.ticker = factory
		}
	}
}

// NewProgress builds a Progress with the default cadence unless overridden.
func NewProgress(opts ...ProgressOption) *Progress {
	p := &Progress{
		interval: defaultProgressInterval,
		ceiling:  defaultProgressCeiling,
		factor:   defaultProgressFactor,
		ticker:   realTicker,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Start begins the simulation from zero. Starting an already-running
// simulation is a no-op.
func (p *Progress) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.value = 0
	p.done = make(chan struct{})
	go p.loop(ctx, p.done)
}

func (p *Progress) loop(ctx context.Context, done <-chan struct{}) {
	ticks, stop := p.ticker(p.interval)
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticks:
			p.Advance()
		}
	}
}

// Advance applies one simulated increment: a fixed fraction of the distance
// left to the ceiling, so repeated calls approach it without arriving.
func (p *Progress) Advance() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value += (p.ceiling - p.value) * p.factor
}

// Value returns the current simulated percentage.
func (p *Progress) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Running reports whether a simulation is active.
func (p *Progress) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Finish stops the simulation and resets the value to zero.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		close(p.done)
		p.running = false
	}
	p.value = 0
}
