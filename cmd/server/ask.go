package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question and exit",
		Example: `  server ask "What are your hours?"
  server ask --source "Do you offer discounts?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if cfg.Fallback.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Fallback.Timeout)
				defer cancel()
			}

			reply := a.engine.Dispatch(ctx, strings.Join(args, " "))

			out := cmd.OutOrStdout()
			if showSource {
				fmt.Fprintf(out, "[%s/%s]\n", reply.Source, reply.Intent)
			}
			fmt.Fprintln(out, reply.Text)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showSource, "source", "s", false, "print where the answer came from")
	return cmd
}
