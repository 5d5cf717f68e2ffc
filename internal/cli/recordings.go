package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"thoughts/internal/bootstrap"
	"thoughts/internal/usecase"
)

func recordingsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recordings",
		Aliases: []string{"rec"},
		Short:   "List or play saved recordings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recordings, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(opts, bootstrap.LogSink{}, nil, func(s bootstrap.Services) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCREATED\tLENGTH\tPATH")
				for r := range s.Catalog.List() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						r.ID,
						r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						usecase.FormatElapsed(r.DurationSeconds),
						r.Path,
					)
				}
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "play [id]",
		Short: "Play a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(opts, bootstrap.LogSink{}, nil, func(s bootstrap.Services) error {
				artifact, ok := s.Catalog.Find(args[0])
				if !ok {
					return fmt.Errorf("recording %q not found", args[0])
				}
				return s.Player.Play(cmd.Context(), artifact)
			})
		},
	})

	return cmd
}
