package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"thoughts/internal/bootstrap"
	"thoughts/internal/locale"
	"thoughts/internal/ports"
	"thoughts/internal/tui"
)

type options struct {
	lang    string
	logFile string
}

// NewRootCmd builds the command tree. Without a subcommand it opens the
// terminal UI.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "thoughts",
		Short: "Thoughts - guided reflection with spoken and written answers",
		Long: `Thoughts walks through a fixed list of reflection questions.

Each question can be answered by recording your voice or by typing into a
shared note. Recordings and the note are kept on disk between runs.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.lang, "lang", "", "Interface language (ar or en); defaults to the locale")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(draftCmd(opts))
	root.AddCommand(recordingsCmd(opts))
	root.AddCommand(promptsCmd(opts))
	return root
}

// Execute runs the root command.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// withServices builds the runtime graph for one command and tears it down
// afterwards. --log-file takes precedence over logOutput.
func withServices(opts *options, events ports.EventSink, logOutput io.Writer, fn func(bootstrap.Services) error) error {
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOutput = f
	}

	services, err := bootstrap.Build(events, logOutput)
	if err != nil {
		return err
	}
	defer services.Close()

	if opts.lang != "" {
		services.Language = locale.Detect(opts.lang)
	}
	return fn(services)
}

func runTUI(opts *options) error {
	sink := tui.NewEventSink()
	// The terminal belongs to the UI; logs go to --log-file or nowhere.
	return withServices(opts, sink, io.Discard, func(s bootstrap.Services) error {
		model := tui.New(tui.Deps{
			Session:    s.Session,
			Drafts:     s.Drafts,
			Prompts:    s.Prompts,
			Recordings: s.Catalog,
			Player:     s.Player,
			Language:   s.Language,
			Events:     sink.Messages(),
		})
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	})
}
