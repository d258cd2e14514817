package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tabinsight/internal/analytics"
	"tabinsight/internal/config"
	"tabinsight/internal/dataset"
	"tabinsight/internal/infrastructure"
	"tabinsight/internal/privacy"
	"tabinsight/internal/tabular"
)

// cli holds what every subcommand shares once the configuration is loaded
type cli struct {
	debug  bool
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:     "tabinsight",
		Short:   "Analyze small tabular datasets",
		Version: config.AppVersion,
		Long: `tabinsight cleans, describes and masks CSV and XLSX tables.
Run "tabinsight serve" to start the JSON API, or use the other commands
directly on local files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
	}

	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging on stderr")

	root.AddCommand(
		newServeCmd(c),
		newDescribeCmd(c),
		newSummaryCmd(c),
		newCleanCmd(c),
		newMaskCmd(c),
	)
	return root
}

func (c *cli) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := "warn"
	if c.debug {
		level = "debug"
	}
	c.logger = infrastructure.NewLoggerWithWriter(os.Stderr, level)
	return nil
}

func (c *cli) analyzer() *analytics.Analyzer {
	return analytics.NewAnalyzer(c.cfg.Analytics, c.logger)
}

func (c *cli) masker() *privacy.Masker {
	return privacy.NewMasker(c.cfg.Analytics, c.logger)
}

// readTable loads a local CSV or XLSX file
func (c *cli) readTable(path string) (*dataset.Table, error) {
	reader := tabular.NewReader(dataset.Options{IdentifierKeywords: c.cfg.Analytics.IdentifierKeywords}, c.logger)
	table, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// writeTable encodes table by the extension of path
func writeTable(path string, table *dataset.Table) error {
	data, err := tabular.Encode(path, table)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
