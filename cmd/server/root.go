package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/config"
	"github.com/themobileprof/fitzone-bot/internal/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "server",
		Short: "FitZone facility chatbot",
		Long: `Answers questions about the gym from its facility data, escalating
anything the rules cannot handle to an optional LLM fallback.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a config.yaml (default: ./configs or .)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newClassifyCmd())

	return root
}

// setup loads configuration and builds the logger shared by every command.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadPath(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
