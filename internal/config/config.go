package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"thoughts/internal/domain"
	"thoughts/internal/locale"
)

// Config stores runtime configuration.
type Config struct {
	Storage  StorageConfig
	Audio    AudioConfig
	Session  SessionConfig
	Language domain.Language
	LogLevel slog.Level
}

type StorageConfig struct {
	DBPath        string
	RecordingsDir string
}

type AudioConfig struct {
	RecorderCommand string
	PlayerCommand   string
	InputFormat     string
	InputDevice     string
	SampleRate      int
	Channels        int
}

type SessionConfig struct {
	TickInterval time.Duration
}

// Load resolves configuration from an optional config file, environment
// variables and defaults, in increasing order of precedence.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	dataDir := filepath.Join(home, ".config", "thoughts")
	configPath := envOrDefault("THOUGHTS_CONFIG", filepath.Join(dataDir, "config.yaml"))
	file, err := readFile(configPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Storage: StorageConfig{
			DBPath:        envOrDefault("THOUGHTS_DB_PATH", file.str("storage.db_path", filepath.Join(dataDir, "thoughts.db"))),
			RecordingsDir: envOrDefault("THOUGHTS_RECORDINGS_DIR", file.str("storage.recordings_dir", filepath.Join(dataDir, "recordings"))),
		},
		Audio: AudioConfig{
			RecorderCommand: envOrDefault("THOUGHTS_FFMPEG_COMMAND", file.str("audio.recorder_command", "ffmpeg")),
			PlayerCommand:   envOrDefault("THOUGHTS_FFPLAY_COMMAND", file.str("audio.player_command", "ffplay")),
			InputFormat:     envOrDefault("THOUGHTS_AUDIO_INPUT_FORMAT", file.str("audio.input_format", "pulse")),
			InputDevice: firstNonEmpty(
				os.Getenv("THOUGHTS_AUDIO_INPUT_DEVICE"),
				file.str("audio.input_device", ""),
				"default",
			),
			SampleRate: envOrDefaultInt("THOUGHTS_SAMPLE_RATE", file.num("audio.sample_rate", 44100)),
			Channels:   envOrDefaultInt("THOUGHTS_CHANNELS", file.num("audio.channels", 1)),
		},
		Session: SessionConfig{
			TickInterval: time.Duration(envOrDefaultInt("THOUGHTS_TICK_MS", file.num("session.tick_ms", 1000))) * time.Millisecond,
		},
		Language: languageFrom(file.str("locale", "")),
		LogLevel: parseLevel(envOrDefault("THOUGHTS_LOG_LEVEL", file.str("log_level", "info"))),
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 44100
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.TickInterval <= 0 {
		cfg.Session.TickInterval = time.Second
	}

	return cfg, nil
}

// fileValues holds settings read from the config file. A missing file is
// empty.
type fileValues struct {
	v *viper.Viper
}

func readFile(path string) (fileValues, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileValues{}, nil
		}
		return fileValues{}, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fileValues{}, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return fileValues{v: v}, nil
}

func (f fileValues) str(key string, fallback string) string {
	if f.v == nil || !f.v.IsSet(key) {
		return fallback
	}
	if value := strings.TrimSpace(f.v.GetString(key)); value != "" {
		return value
	}
	return fallback
}

func (f fileValues) num(key string, fallback int) int {
	if f.v == nil || !f.v.IsSet(key) {
		return fallback
	}
	return f.v.GetInt(key)
}

// languageFrom prefers the environment; the config file only applies when no
// locale variable is set.
func languageFrom(fileLocale string) domain.Language {
	for _, key := range []string{"THOUGHTS_LOCALE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			return locale.FromEnvironment()
		}
	}
	return locale.Detect(fileLocale)
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
