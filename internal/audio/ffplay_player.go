package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"thoughts/internal/domain"
)

// FFPlayPlayer plays recordings through ffplay without a window.
type FFPlayPlayer struct {
	command string
}

func NewFFPlayPlayer(command string) *FFPlayPlayer {
	if command == "" {
		command = "ffplay"
	}
	return &FFPlayPlayer{command: command}
}

// Play blocks until playback finishes or ctx is cancelled.
func (p *FFPlayPlayer) Play(ctx context.Context, artifact domain.Artifact) error {
	if _, err := os.Stat(artifact.Path); err != nil {
		return fmt.Errorf("recording %s is not readable: %w", artifact.ID, err)
	}

	cmd := exec.CommandContext(ctx, p.command,
		"-nodisp",
		"-autoexit",
		"-hide_banner",
		"-loglevel", "error",
		artifact.Path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if stderr.Len() > 0 {
			return fmt.Errorf("ffplay failed: %w: %s", err, stringsTrimSpaceSafe(stderr.String()))
		}
		return fmt.Errorf("ffplay failed: %w", err)
	}
	return nil
}
