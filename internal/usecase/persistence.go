package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

// persistenceGuard tracks whether a component has fallen back to memory-only
// mode. The first failure is reported; later calls skip storage entirely.
type persistenceGuard struct {
	component string
	events    ports.EventSink

	mu       sync.Mutex
	degraded bool
}

func newPersistenceGuard(component string, events ports.EventSink, available bool) *persistenceGuard {
	return &persistenceGuard{component: component, events: events, degraded: !available}
}

func (g *persistenceGuard) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.degraded
}

// fail switches to memory-only mode and returns the error to surface. It
// returns nil when the guard was already degraded.
func (g *persistenceGuard) fail(op string, err error) error {
	g.mu.Lock()
	if g.degraded {
		g.mu.Unlock()
		return nil
	}
	g.degraded = true
	g.mu.Unlock()

	slog.Warn("storage unavailable, continuing in memory",
		"component", g.component,
		"op", op,
		"error", err,
	)
	if g.events != nil {
		g.events.SessionError(domain.ErrorCodePersistence, fmt.Sprintf("%s: %s failed: %v", g.component, op, err))
	}
	return fmt.Errorf("%s %s: %w: %w", g.component, op, domain.ErrPersistenceUnavailable, err)
}
