package cli

import (
	"github.com/spf13/cobra"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/table"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview FILE...",
		Short: "Show dimensions and columns of delimited files without loading them",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, nil); err != nil {
				return err
			}

			out := previewOutput{Files: make([]*table.Dimensions, 0, len(args))}
			for _, path := range args {
				d, err := table.Measure(path)
				if err != nil {
					return err
				}
				a.log.Debug("Measured file", logger.Fields{"path": path, "rows": d.Rows, "columns": d.Columns})
				out.Files = append(out.Files, d)
			}
			return a.write(cmd, out)
		},
	}
}
