package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"thoughts/internal/bootstrap"
	"thoughts/internal/prompts"
)

func promptsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List prompts or change their completion",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List prompts with their completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(opts, bootstrap.LogSink{}, nil, func(s bootstrap.Services) error {
				for _, p := range s.Prompts.All(s.Language) {
					mark := " "
					if p.Complete {
						mark = "x"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %s\n", p.Index+1, mark, p.Text)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(setCompleteCmd(opts, "done", "Mark a prompt done", true))
	cmd.AddCommand(setCompleteCmd(opts, "undo", "Mark a prompt not done", false))
	return cmd
}

// setCompleteCmd takes prompt numbers as shown by "prompts list", starting at 1.
func setCompleteCmd(opts *options, use string, short string, complete bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [number]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid prompt number %q", args[0])
			}
			return withServices(opts, bootstrap.LogSink{}, nil, func(s bootstrap.Services) error {
				if number < 1 || number > s.Prompts.Len() {
					return fmt.Errorf("%w: %d not in [1,%d]", prompts.ErrIndexOutOfRange, number, s.Prompts.Len())
				}
				if err := s.Prompts.SetComplete(number-1, complete); err != nil {
					return err
				}
				if !s.Prompts.Durable() {
					return errors.New("prompt progress kept in memory only; storage is unavailable")
				}
				return nil
			})
		},
	}
}
