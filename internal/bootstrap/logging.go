package bootstrap

import (
	"io"
	"log/slog"
	"os"

	"thoughts/internal/domain"
)

func setupLogging(out io.Writer, level slog.Level) {
	if out == nil {
		out = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
}

// LogSink is an event sink for shells without a live view. Events become log
// lines.
type LogSink struct{}

func (LogSink) SessionStateChanged(state domain.SessionState, reason domain.SessionStateReason) {
	slog.Debug("session state changed", "state", state, "reason", reason)
}

func (LogSink) ElapsedChanged(seconds int, formatted string) {
	slog.Debug("elapsed", "seconds", seconds, "formatted", formatted)
}

func (LogSink) RecordingSaved(artifact domain.Artifact) {
	slog.Info("recording saved", "id", artifact.ID, "path", artifact.Path)
}

func (LogSink) SessionError(code domain.ErrorCode, detail string) {
	slog.Warn("session error", "code", code, "detail", detail)
}
