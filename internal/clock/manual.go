package clock

import (
	"sync"
	"time"

	"thoughts/internal/ports"
)

// Manual is a clock advanced explicitly by the caller. Tick delivers are
// blocking, so Advance returns only after every live ticker has received.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) NewTicker(d time.Duration) ports.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{
		period:  d,
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
	}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves the clock forward and fires each live ticker once per
// elapsed period.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now
	live := m.tickers[:0]
	for _, t := range m.tickers {
		if !t.isStopped() {
			live = append(live, t)
		}
	}
	m.tickers = live
	targets := make([]*manualTicker, len(live))
	copy(targets, live)
	m.mu.Unlock()

	for _, t := range targets {
		for fired := t.period; fired <= d; fired += t.period {
			if !t.deliver(now) {
				break
			}
		}
	}
}

// Tickers returns the number of tickers that have not been stopped.
func (m *Manual) Tickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

type manualTicker struct {
	period   time.Duration
	c        chan time.Time
	stopOnce sync.Once
	stopped  chan struct{}
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

func (t *manualTicker) isStopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}

func (t *manualTicker) deliver(now time.Time) bool {
	if t.period <= 0 {
		return false
	}
	select {
	case t.c <- now:
		return true
	case <-t.stopped:
		return false
	}
}
