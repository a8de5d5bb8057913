package cli

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/scraper"
	"github.com/courtdata/matchprep/internal/table"
)

func newScrapeCmd(a *app) *cobra.Command {
	var (
		index int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "scrape URL",
		Short: "Download an HTML table and save it as CSV",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if index < 0 {
				return errors.Mark(errors.Newf("--index must not be negative, got %d", index), ErrUsage)
			}
			if err := a.setup(cmd, nil); err != nil {
				return err
			}

			sc := scraper.New(
				scraper.WithTimeout(a.cfg.HTTP.Timeout),
				scraper.WithUserAgent(a.cfg.HTTP.UserAgent),
			)
			a.log.Info("Fetching table", logger.Fields{"url": args[0], "index": index})
			tbl, err := sc.FetchTable(cmd.Context(), args[0], index)
			if err != nil {
				return err
			}

			columns, rows := tbl.Records()
			paths, err := table.WriteFiles(filepath.Dir(out), table.File{
				Name:    filepath.Base(out),
				Columns: columns,
				Rows:    rows,
			})
			if err != nil {
				return err
			}

			return a.write(cmd, scrapeOutput{
				URL:     args[0],
				Index:   index,
				Output:  paths[0],
				Rows:    len(rows),
				Columns: len(columns),
			})
		},
	}

	cmd.Flags().IntVar(&index, "index", 0, "Zero-based position of the table on the page")
	cmd.Flags().StringVar(&out, "out", "table.csv", "CSV file to write")
	return cmd
}
