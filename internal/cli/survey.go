package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/courtdata/matchprep/internal/config"
	"github.com/courtdata/matchprep/internal/survey"
)

func newSurveyCmd(a *app) *cobra.Command {
	var (
		exportJSON   bool
		processedDir string
		sortBy       string
	)

	cmd := &cobra.Command{
		Use:   "survey DIR",
		Short: "Summarize every raw data file under a directory",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortBy)
			if err != nil {
				return err
			}
			err = a.setup(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("export-json") {
					cfg.Survey.ExportJSON = exportJSON
				}
				if processedDir != "" {
					cfg.Survey.ProcessedDir = processedDir
				}
			})
			if err != nil {
				return err
			}

			rep, err := survey.Walk(cmd.Context(), args[0], survey.Options{
				Extensions:   a.cfg.Survey.Extensions,
				ExportJSON:   a.cfg.Survey.ExportJSON,
				ProcessedDir: a.cfg.Survey.ProcessedDir,
				Logger:       a.log,
			})
			if err != nil {
				return err
			}
			sortFiles(rep.Files, order)
			return a.write(cmd, surveyOutput{rep})
		},
	}

	cmd.Flags().BoolVar(&exportJSON, "export-json", false, "Export JSON record arrays as CSV")
	cmd.Flags().StringVar(&processedDir, "processed-dir", "", "Directory for exported CSV files")
	cmd.Flags().StringVar(&sortBy, "sort", "path", "Sort files by: path, size, rows or missing")
	return cmd
}

func newNamesCmd(a *app) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "names DIR",
		Short: "Classify the player names found in raw match files",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 0 {
				return errors.Mark(errors.Newf("--samples must not be negative, got %d", samples), ErrUsage)
			}
			if err := a.setup(cmd, nil); err != nil {
				return err
			}

			rep, err := survey.Names(cmd.Context(), args[0], a.cfg.Columns, a.cfg.Survey.Extensions, samples, a.log)
			if err != nil {
				return err
			}
			return a.write(cmd, namesOutput{rep})
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 10, "Sample names to show per shape")
	return cmd
}
