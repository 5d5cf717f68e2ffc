package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"thoughts/internal/bootstrap"
)

func draftCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Show or replace the shared written answer",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the written answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(opts, bootstrap.LogSink{}, nil, func(s bootstrap.Services) error {
				fmt.Fprintln(cmd.OutOrStdout(), s.Drafts.Load())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [text]",
		Short: "Replace the written answer; reads stdin when text is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(raw), "\n")
			}
			return withServices(opts, bootstrap.LogSink{}, nil, func(s bootstrap.Services) error {
				if err := s.Drafts.Save(text); err != nil {
					return err
				}
				if !s.Drafts.Durable() {
					return errors.New("draft kept in memory only; storage is unavailable")
				}
				return nil
			})
		},
	})

	return cmd
}
