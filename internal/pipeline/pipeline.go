package pipeline

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/config"
	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/match"
	"github.com/courtdata/matchprep/internal/metrics"
	"github.com/courtdata/matchprep/internal/registry"
	"github.com/courtdata/matchprep/internal/table"
)

// Output file names.
const (
	PlayersFile = "players.csv"
	MatchesFile = "matches.csv"
)

// Result summarizes one clean run.
type Result struct {
	Input           string                    `json:"input"`
	Encoding        string                    `json:"encoding"`
	Delimiter       string                    `json:"delimiter"`
	RowsLoaded      int                       `json:"rows_loaded"`
	MatchesWritten  int                       `json:"matches_written"`
	Mentions        int                       `json:"mentions"`
	Players         int                       `json:"players"`
	Rejections      []*match.Rejection        `json:"rejections"`
	RepeatedIDs     []string                  `json:"repeated_match_ids,omitempty"`
	GenderConflicts []registry.GenderConflict `json:"gender_conflicts,omitempty"`
	Outputs         []string                  `json:"outputs"`
	Metrics         map[string]float64        `json:"metrics,omitempty"`
}

// Pipeline runs the clean stages over one input file.
type Pipeline struct {
	cfg *config.Config
	log *logger.Logger
	rec *metrics.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger; the package default is used otherwise.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithRecorder sets the metrics recorder; a fresh one is used otherwise.
func WithRecorder(r *metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.rec = r
		}
	}
}

// New creates a Pipeline for cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Default()
	}
	if p.rec == nil {
		p.rec = metrics.New()
	}
	return p
}

// Run is New(cfg).Run(ctx).
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	return New(cfg).Run(ctx)
}

// Run loads the input, filters rows, resolves players and writes
// players.csv and matches.csv. Nothing is written unless every stage
// succeeds.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.cfg.Input == "" {
		return nil, errors.Mark(ErrNoInput, ErrInputStructure)
	}
	res := &Result{Input: p.cfg.Input}

	done := p.rec.Stage("load")
	tbl, err := table.Load(p.cfg.Input)
	done()
	if err != nil {
		return nil, errors.Mark(err, ErrInputStructure)
	}
	res.Encoding = tbl.Encoding
	res.Delimiter = string(tbl.Delimiter)
	res.RowsLoaded = len(tbl.Rows)
	p.rec.RowsLoaded(len(tbl.Rows))
	p.log.Info("Loaded input", logger.Fields{
		"path":      tbl.Source,
		"encoding":  tbl.Encoding,
		"delimiter": res.Delimiter,
		"rows":      len(tbl.Rows),
		"columns":   len(tbl.Columns),
	})

	schema, err := match.NewSchema(tbl.Columns, p.cfg.Columns)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", tbl.Source), ErrInputStructure)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done = p.rec.Stage("validate")
	matches, err := p.accept(tbl, schema, res)
	done()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done = p.rec.Stage("resolve")
	reg, err := registry.Build(matches)
	if err != nil {
		done()
		return nil, errors.Mark(err, ErrIdentity)
	}
	columns, rows, err := reg.Rewrite(schema, matches)
	done()
	if err != nil {
		return nil, errors.Mark(err, ErrIdentity)
	}
	res.Players = reg.Len()
	res.GenderConflicts = reg.GenderConflicts
	res.Mentions = reg.Mentions
	p.rec.Mentions(res.Mentions)
	p.rec.Players(res.Players)
	p.rec.GenderConflicts(len(reg.GenderConflicts))
	for _, c := range reg.GenderConflicts {
		p.log.Warn("Gender conflict, keeping first value", logger.Fields{
			"player_id":      c.PlayerID,
			"canonical_name": c.CanonicalName,
			"kept":           c.Kept,
			"seen":           strings.Join(c.Seen, ","),
		})
	}
	p.log.Info("Resolved players", logger.Fields{
		"mentions": res.Mentions,
		"players":  res.Players,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done = p.rec.Stage("write")
	paths, err := table.WriteFiles(p.cfg.OutputDir,
		table.File{Name: PlayersFile, Columns: registry.PlayerColumns, Rows: reg.Records()},
		table.File{Name: MatchesFile, Columns: columns, Rows: rows},
	)
	done()
	if err != nil {
		return nil, errors.Mark(err, ErrOutput)
	}
	res.Outputs = paths
	res.MatchesWritten = len(rows)
	p.rec.MatchesWritten(len(rows))
	p.log.Info("Wrote cleaned dataset", logger.Fields{
		"players": paths[0],
		"matches": paths[1],
		"rows":    len(rows),
	})

	// The dataset is committed at this point; a metrics failure only warns.
	if p.cfg.MetricsFile != "" {
		if err := p.rec.WriteTextfile(p.cfg.MetricsFile); err != nil {
			p.log.Warn("Could not write metrics textfile", logger.Fields{
				"path":  p.cfg.MetricsFile,
				"error": err.Error(),
			})
		}
	}
	snap, err := p.rec.Snapshot()
	if err != nil {
		p.log.Warn("Metrics snapshot failed", logger.Fields{"error": err.Error()})
	}
	res.Metrics = snap
	return res, nil
}
