package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/capture"
	"github.com/courtdata/matchprep/internal/names"
	"github.com/courtdata/matchprep/internal/pipeline"
	"github.com/courtdata/matchprep/internal/survey"
	"github.com/courtdata/matchprep/internal/table"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Renderer is a command result that can print itself as text. The JSON
// form is the value itself.
type Renderer interface {
	WriteText(w io.Writer) error
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result Renderer, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.WriteText(w)
	default:
		return errors.Newf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

type cleanOutput struct {
	*pipeline.Result
}

func (o cleanOutput) WriteText(w io.Writer) error {
	r := o.Result
	fmt.Fprintf(w, "Cleaned %s (%s, %q)\n", r.Input, r.Encoding, r.Delimiter)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  rows loaded:\t%d\n", r.RowsLoaded)
	fmt.Fprintf(tw, "  rows rejected:\t%d\n", len(r.Rejections))
	fmt.Fprintf(tw, "  matches written:\t%d\n", r.MatchesWritten)
	fmt.Fprintf(tw, "  mentions:\t%d\n", r.Mentions)
	fmt.Fprintf(tw, "  players:\t%d\n", r.Players)
	fmt.Fprintf(tw, "  gender conflicts:\t%d\n", len(r.GenderConflicts))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Rejections) > 0 {
		fmt.Fprintln(w, "\nRejected rows:")
		for _, rej := range r.Rejections {
			fmt.Fprintf(w, "  line %d (%s): %s\n", rej.Line, rej.MatchID, strings.Join(rej.Reasons, "; "))
		}
	}
	if len(r.RepeatedIDs) > 0 {
		fmt.Fprintf(w, "\nRepeated match ids: %s\n", strings.Join(r.RepeatedIDs, ", "))
	}
	if len(r.GenderConflicts) > 0 {
		fmt.Fprintln(w, "\nGender conflicts:")
		for _, gc := range r.GenderConflicts {
			fmt.Fprintf(w, "  %s %s: kept %s, also seen %s\n", gc.PlayerID, gc.CanonicalName, gc.Kept, strings.Join(gc.Seen, ","))
		}
	}

	fmt.Fprintln(w, "\nWrote:")
	for _, p := range r.Outputs {
		fmt.Fprintf(w, "  %s\n", p)
	}
	return nil
}

type previewOutput struct {
	Files []*table.Dimensions `json:"files"`
}

func (o previewOutput) WriteText(w io.Writer) error {
	for i, d := range o.Files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", d.Path)
		fmt.Fprintf(w, "  Dimensions: %d rows x %d columns (%s, %q)\n", d.Rows, d.Columns, d.Encoding, d.Delimiter)
		fmt.Fprintf(w, "  Columns (%d): %s\n", len(d.Header), strings.Join(d.Header, ", "))
	}
	return nil
}

type surveyOutput struct {
	*survey.Report
}

func (o surveyOutput) WriteText(w io.Writer) error {
	if len(o.Files) == 0 {
		fmt.Fprintf(w, "No matching files under %s.\n", o.Root)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tSIZE\tROWS\tCOLS\tMISSING\tNOTE")
	for _, f := range o.Files {
		note := f.Encoding
		switch {
		case f.Error != "":
			note = "error: " + f.Error
		case f.Exported != "":
			note = "exported " + f.Exported
		case f.Sheet != "":
			note = "sheet " + f.Sheet
		case f.Kind != survey.KindDelimited:
			note = f.MIME
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n", f.Path, f.Kind, humanSize(f.Size), f.Rows, f.Columns, f.Missing, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nTotal: %d files\n", len(o.Files))
	return nil
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

type namesOutput struct {
	*survey.NameReport
}

func (o namesOutput) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Scanned %d files under %s (%d skipped)\n", o.Files, o.Root, len(o.Skipped))
	fmt.Fprintf(w, "Empty name cells: %d\n", o.Empty)
	for _, shape := range []names.Shape{names.ShapeFull, names.ShapePartial, names.ShapeSingle} {
		fmt.Fprintf(w, "\n%s names: %d\n", shape, o.Counts[shape])
		for _, s := range o.Samples[shape] {
			fmt.Fprintf(w, "  %s\n", s)
		}
	}
	return nil
}

type scrapeOutput struct {
	URL     string `json:"url"`
	Index   int    `json:"index"`
	Output  string `json:"output"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

func (o scrapeOutput) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Table %d from %s: %d rows x %d columns\n", o.Index, o.URL, o.Rows, o.Columns)
	fmt.Fprintf(w, "Wrote %s\n", o.Output)
	return nil
}

type endpointSummary struct {
	Endpoint string  `json:"endpoint"`
	Status   int     `json:"status"`
	Shape    string  `json:"shape"`
	Count    int     `json:"count"`
	TTFBMs   float64 `json:"ttfb_ms"`
	TotalMs  float64 `json:"total_ms"`
}

type captureOutput struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Path      string            `json:"path,omitempty"`
	Endpoints []endpointSummary `json:"endpoints"`
}

func summarizeCapture(s *capture.Session, path string) captureOutput {
	out := captureOutput{ID: s.ID, Source: s.Source, Path: path, Endpoints: []endpointSummary{}}
	for _, key := range s.Endpoints() {
		rec := s.Records[key]
		kind, n := rec.Shape()
		out.Endpoints = append(out.Endpoints, endpointSummary{
			Endpoint: key,
			Status:   rec.Status,
			Shape:    kind,
			Count:    n,
			TTFBMs:   rec.Timing.TTFBMs,
			TotalMs:  rec.Timing.TotalMs,
		})
	}
	return out
}

func (o captureOutput) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Capture %s (%s)\n", o.ID, o.Source)
	if len(o.Endpoints) == 0 {
		fmt.Fprintln(w, "No JSON responses captured.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ENDPOINT\tSTATUS\tSHAPE\tTTFB MS\tTOTAL MS")
		for _, e := range o.Endpoints {
			fmt.Fprintf(tw, "%s\t%d\t%d %s\t%s\t%s\n", e.Endpoint, e.Status, e.Count, e.Shape, formatMs(e.TTFBMs), formatMs(e.TotalMs))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if o.Path != "" {
		fmt.Fprintf(w, "Saved %s\n", o.Path)
	}
	return nil
}

func formatMs(v float64) string {
	if v < 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

type captureListOutput struct {
	Captures []captureOutput `json:"captures"`
}

func (o captureListOutput) WriteText(w io.Writer) error {
	if len(o.Captures) == 0 {
		fmt.Fprintln(w, "No captures stored.")
		return nil
	}
	for _, c := range o.Captures {
		fmt.Fprintf(w, "%s  %-40s  %d endpoints\n", c.ID, c.Source, len(c.Endpoints))
	}
	return nil
}
