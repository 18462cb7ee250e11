// Package main provides the headless filter-and-export CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"yhdash/internal/config"
	"yhdash/internal/dataset"
	"yhdash/internal/exporter"
	"yhdash/internal/infrastructure"
	"yhdash/internal/middleware"
	"yhdash/internal/services"
	"yhdash/internal/validation"
	"yhdash/pkg/contracts/domain"
)

type options struct {
	dataFile     string
	county       string
	municipality string
	yearMin      string
	yearMax      string
	outputPath   string
	bom          bool
	verbose      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "yhexport",
		Short: "Filter the YH dataset and export it as CSV",
		Long: `yhexport loads the YH spreadsheet, applies the county, municipality
and year filters used by the dashboard, and writes the filtered rows as CSV.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "yhexport: %v\n", err)
			}
			return err
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.dataFile, "data", config.DefaultDataFile, "Source spreadsheet (.xlsx or .csv)")
	flags.StringVar(&opts.county, "county", domain.NoFilter, "County (Län) to keep")
	flags.StringVar(&opts.municipality, "municipality", domain.NoFilter, "Municipality (Kommun) to keep")
	flags.StringVar(&opts.yearMin, "year-min", "", "First year to keep (requires --year-max)")
	flags.StringVar(&opts.yearMax, "year-max", "", "Last year to keep (requires --year-min)")
	flags.StringVarP(&opts.outputPath, "out", "o", exporter.FileName, "Output file or directory")
	flags.BoolVar(&opts.bom, "bom", false, "Prefix the file with a UTF-8 BOM for Excel")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")

	return rootCmd
}

// loggingConfig keeps the CLI quiet on stderr unless asked for progress
func (o *options) loggingConfig() config.LoggingConfig {
	cfg := config.LoggingConfig{
		Level:  "warn",
		Format: config.DefaultLogFormat,
		Output: "console",
	}
	if o.verbose {
		cfg.Level = "info"
	}
	return cfg
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, closer, err := infrastructure.NewLogger(opts.loggingConfig(), stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	validator := middleware.NewFilterValidator(logger, nil)
	state, err := validator.Parse(middleware.FilterQuery{
		County:       opts.county,
		Municipality: opts.municipality,
		YearMin:      opts.yearMin,
		YearMax:      opts.yearMax,
	})
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	if err := validation.NewFileValidator(logger).ValidateExportPath(opts.outputPath); err != nil {
		return err
	}

	loader := dataset.NewLoader(config.ResolveDataFile(opts.dataFile), logger)
	service := services.NewDashboardService(loader, logger, nil)

	view, err := service.Filter(ctx, state)
	if err != nil {
		return err
	}

	path, err := exporter.NewCSVWriter(logger).WriteFile(opts.outputPath, view, exporter.WriteOptions{
		BOMPrefix: opts.bom,
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if view.Empty() {
		logger.Warn("no rows matched the selected filters")
	}
	fmt.Fprintf(stdout, "wrote %d rows to %s\n", view.Len(), path)
	return nil
}
