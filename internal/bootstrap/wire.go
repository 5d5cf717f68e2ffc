package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"thoughts/internal/audio"
	"thoughts/internal/clock"
	"thoughts/internal/config"
	"thoughts/internal/domain"
	"thoughts/internal/ports"
	"thoughts/internal/prompts"
	"thoughts/internal/store"
	"thoughts/internal/usecase"
)

const restoreTimeout = 5 * time.Second

// Services is the assembled runtime graph.
type Services struct {
	Session  *usecase.RecordingSession
	Drafts   *usecase.TextDraftStore
	Catalog  *usecase.RecordingCatalog
	Prompts  *prompts.Sequence
	Player   ports.Player
	Config   config.Config
	Language domain.Language

	store *store.Store
}

// Close stops any running capture and releases storage.
func (s Services) Close() error {
	if s.Session != nil {
		s.Session.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Build wires all backend dependencies for the current runtime. Log lines go
// to logOutput, or stderr when it is nil. Storage that cannot be opened is
// reported and every component falls back to memory-only mode.
func Build(eventSink ports.EventSink, logOutput io.Writer) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}
	setupLogging(logOutput, cfg.LogLevel)

	db, err := openStore(cfg.Storage.DBPath)
	if err != nil {
		slog.Warn("storage unavailable, running memory-only",
			"path", cfg.Storage.DBPath,
			"error", err,
		)
		if eventSink != nil {
			eventSink.SessionError(domain.ErrorCodePersistence, err.Error())
		}
	}

	var (
		drafts   ports.DraftRepository
		recs     ports.ArtifactRepository
		progress ports.ProgressRepository
	)
	if db != nil {
		drafts, recs, progress = db, db, db
	}

	sequence := prompts.New(progress)
	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()
	if err := sequence.Restore(ctx); err != nil {
		slog.Warn("prompt progress not restored", "error", err)
		if eventSink != nil {
			eventSink.SessionError(domain.ErrorCodePersistence, err.Error())
		}
	}

	catalog := usecase.NewRecordingCatalog(recs, eventSink)
	session := usecase.NewRecordingSession(
		audio.NewFFMPEGCapture(cfg.Audio.RecorderCommand),
		catalog,
		clock.System{},
		eventSink,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
				OutputDir:   cfg.Storage.RecordingsDir,
			},
			TickInterval: cfg.Session.TickInterval,
		},
	)

	return Services{
		Session:  session,
		Drafts:   usecase.NewTextDraftStore(drafts, eventSink),
		Catalog:  catalog,
		Prompts:  sequence,
		Player:   audio.NewFFPlayPlayer(cfg.Audio.PlayerCommand),
		Config:   cfg,
		Language: cfg.Language,
		store:    db,
	}, nil
}

func openStore(path string) (*store.Store, error) {
	sqlDB, err := store.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	s, err := store.New(sqlDB)
	if err != nil {
		return nil, errors.Join(err, sqlDB.Close())
	}
	return s, nil
}
