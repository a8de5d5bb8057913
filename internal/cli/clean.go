package cli

import (
	"github.com/spf13/cobra"

	"github.com/courtdata/matchprep/internal/config"
	"github.com/courtdata/matchprep/internal/metrics"
	"github.com/courtdata/matchprep/internal/pipeline"
)

func newCleanCmd(a *app) *cobra.Command {
	var input, outputDir, metricsFile string

	cmd := &cobra.Command{
		Use:   "clean [INPUT]",
		Short: "Resolve players and write players.csv and matches.csv",
		Long: `Loads a raw match file, rejects rows that fail validation, resolves
every player name to a stable id and writes players.csv and matches.csv
into the output directory. Nothing is written if any stage fails.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				input = args[0]
			}
			err := a.setup(cmd, func(cfg *config.Config) {
				if input != "" {
					cfg.Input = input
				}
				if outputDir != "" {
					cfg.OutputDir = outputDir
				}
				if metricsFile != "" {
					cfg.MetricsFile = metricsFile
				}
			})
			if err != nil {
				return err
			}

			p := pipeline.New(a.cfg,
				pipeline.WithLogger(a.log),
				pipeline.WithRecorder(metrics.New()),
			)
			res, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}
			return a.write(cmd, cleanOutput{res})
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Raw match file to clean")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for players.csv and matches.csv")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write run metrics in prometheus textfile format")
	return cmd
}
