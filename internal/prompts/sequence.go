// Package prompts holds the fixed sequence of reflection prompts and their
// completion flags.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

var ErrIndexOutOfRange = errors.New("prompt index out of range")

// Sequence is the read-only prompt table plus one mutable completion flag per
// prompt.
type Sequence struct {
	entries  []entry
	progress ports.ProgressRepository

	mu       sync.Mutex
	complete []bool
	degraded bool
}

// New returns the built-in sequence. A nil progress repository keeps flags in
// memory only.
func New(progress ports.ProgressRepository) *Sequence {
	return &Sequence{
		entries:  table,
		progress: progress,
		complete: make([]bool, len(table)),
		degraded: progress == nil,
	}
}

// Restore reads stored completion flags. Unknown indexes are ignored. A load
// failure switches the sequence to memory-only mode.
func (s *Sequence) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		return nil
	}
	flags, err := s.progress.LoadProgress(ctx)
	if err != nil {
		s.degraded = true
		return fmt.Errorf("failed to load prompt progress: %w: %w", domain.ErrPersistenceUnavailable, err)
	}

	for index, done := range flags {
		if index >= 0 && index < len(s.complete) {
			s.complete[index] = done
		}
	}
	return nil
}

// Len returns the number of prompts.
func (s *Sequence) Len() int {
	return len(s.entries)
}

// Text returns prompt index in lang. Languages other than Arabic get English.
func (s *Sequence) Text(index int, lang domain.Language) (string, error) {
	if err := s.check(index); err != nil {
		return "", err
	}
	if lang == domain.LanguageArabic {
		return s.entries[index].Arabic, nil
	}
	return s.entries[index].English, nil
}

func (s *Sequence) IsComplete(index int) (bool, error) {
	if err := s.check(index); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complete[index], nil
}

// SetComplete updates the flag in memory and then in storage. The first
// storage failure leaves the in-memory flag set, is returned, and stops
// further writes.
func (s *Sequence) SetComplete(index int, complete bool) error {
	if err := s.check(index); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.complete[index] = complete
	if s.degraded {
		return nil
	}
	if err := s.progress.SaveProgress(context.Background(), index, complete); err != nil {
		s.degraded = true
		slog.Warn("storage unavailable, continuing in memory", "component", "prompts", "index", index, "error", err)
		return fmt.Errorf("failed to store prompt progress: %w: %w", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

// Durable reports whether completion flags are still reaching storage.
func (s *Sequence) Durable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.degraded
}

// All returns every prompt rendered in lang.
func (s *Sequence) All(lang domain.Language) []domain.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Prompt, len(s.entries))
	for i, e := range s.entries {
		text := e.English
		if lang == domain.LanguageArabic {
			text = e.Arabic
		}
		out[i] = domain.Prompt{Index: i, Text: text, Complete: s.complete[i]}
	}
	return out
}

func (s *Sequence) check(index int) error {
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrIndexOutOfRange, index, len(s.entries)-1)
	}
	return nil
}
