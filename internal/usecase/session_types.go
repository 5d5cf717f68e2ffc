package usecase

import (
	"sync"

	"thoughts/internal/ports"
)

// activeSession holds everything acquired by Start. elapsed is guarded by the
// owning RecordingSession's mu.
type activeSession struct {
	audio  ports.AudioSession
	ticker ports.Ticker

	elapsed int

	stopOnce sync.Once
	stop     chan struct{}
	tickDone chan struct{}
}

func newActiveSession(audio ports.AudioSession, ticker ports.Ticker) *activeSession {
	return &activeSession{
		audio:    audio,
		ticker:   ticker,
		stop:     make(chan struct{}),
		tickDone: make(chan struct{}),
	}
}

// release cancels the ticker and waits for the tick loop to exit.
func (s *activeSession) release() {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.stop)
	})
	<-s.tickDone
}
