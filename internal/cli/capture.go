package cli

import (
	"github.com/spf13/cobra"

	"github.com/courtdata/matchprep/internal/capture"
	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/metrics"
	"github.com/courtdata/matchprep/internal/storage"
)

func newCaptureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Record JSON API responses for later inspection",
	}
	cmd.AddCommand(newCaptureHARCmd(a), newCaptureFetchCmd(a), newCaptureListCmd(a))
	return cmd
}

func newCaptureHARCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "har FILE",
		Short: "Record the JSON responses of a browser HAR export",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, nil); err != nil {
				return err
			}
			store, err := storage.New(a.cfg.DataDir)
			if err != nil {
				return err
			}

			exchanges, err := capture.LoadHAR(args[0])
			if err != nil {
				return err
			}
			a.log.Info("Loaded HAR", logger.Fields{"path": args[0], "exchanges": len(exchanges)})

			rec := capture.NewRecorder(args[0], capture.WithLogger(a.log), capture.WithMetrics(metrics.New()))
			for _, ex := range exchanges {
				rec.Record(ex)
			}
			return a.saveCapture(cmd, store, rec.Session())
		},
	}
}

func newCaptureFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch URL...",
		Short: "GET each URL and record the JSON responses with timing",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, nil); err != nil {
				return err
			}
			store, err := storage.New(a.cfg.DataDir)
			if err != nil {
				return err
			}

			source := args[0]
			if len(args) > 1 {
				source = "live"
			}
			f := capture.NewFetcher(nil, a.cfg.HTTP.Timeout, a.cfg.HTTP.UserAgent)
			rec := capture.NewRecorder(source, capture.WithLogger(a.log), capture.WithMetrics(metrics.New()))
			for _, url := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				ex, err := f.Fetch(cmd.Context(), url)
				if err != nil {
					a.log.Warn("Fetch failed", logger.Fields{"url": url, "error": err.Error()})
					continue
				}
				if !rec.Record(ex) {
					a.log.Debug("Response not recorded", logger.Fields{"url": url, "status": ex.Status, "content_type": ex.ContentType})
				}
			}
			return a.saveCapture(cmd, store, rec.Session())
		},
	}
}

func newCaptureListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored capture sessions, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, nil); err != nil {
				return err
			}
			store, err := storage.New(a.cfg.DataDir)
			if err != nil {
				return err
			}
			sessions, err := store.ListCaptures()
			if err != nil {
				return err
			}

			out := captureListOutput{Captures: make([]captureOutput, 0, len(sessions))}
			for _, s := range sessions {
				out.Captures = append(out.Captures, summarizeCapture(s, ""))
			}
			return a.write(cmd, out)
		},
	}
}

func (a *app) saveCapture(cmd *cobra.Command, store *storage.Storage, s *capture.Session) error {
	path, err := store.SaveCapture(s)
	if err != nil {
		return err
	}
	a.log.Info("Saved capture", logger.Fields{"id": s.ID, "path": path, "endpoints": len(s.Records)})
	return a.write(cmd, summarizeCapture(s, path))
}
