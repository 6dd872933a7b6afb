package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/observability/logging"
)

type options struct {
	cfg    config.Config
	output string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Review, aggregate, compare and export invoice documents offline",
		Long:          "Runs the invoice review rules on JSON document files without the API, database or queue.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.cfg = config.Load()
			slog.SetDefault(logging.NewJSONLoggerTo(cmd.ErrOrStderr(), "invoicectl", opts.cfg.LogLevel))
			switch opts.output {
			case outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want json or yaml)", opts.output)
			}
		},
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "result format: json or yaml")

	root.AddCommand(
		newEvaluateCmd(opts),
		newAnalyticsCmd(opts),
		newExportCmd(opts),
		newCompareCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
