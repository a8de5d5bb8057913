package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/courtdata/matchprep/internal/config"
	"github.com/courtdata/matchprep/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// ErrUsage marks errors caused by bad flags or arguments.
var ErrUsage = errors.New("usage error")

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	format     string
	dataDir    string

	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "matchprep",
		Short: "Prepare raw match files for analysis",
		Long: `A CLI tool that turns raw match files into a player registry
(players.csv) and cleaned matches referencing it (matches.csv), plus
helpers to survey, preview, scrape and capture raw data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (or env: "+config.EnvConfigFile+")")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: json or text")
	pf.StringVar(&a.format, "format", "text", "Output format: text or json")
	pf.StringVar(&a.dataDir, "data-dir", "", "Data directory for captures")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, ErrUsage)
	})

	cmd.AddCommand(
		newCleanCmd(a),
		newPreviewCmd(a),
		newSurveyCmd(a),
		newNamesCmd(a),
		newScrapeCmd(a),
		newCaptureCmd(a),
	)
	return cmd
}

// setup loads the configuration, applies flag overrides and installs the
// logger. override may be nil.
func (a *app) setup(cmd *cobra.Command, override func(*config.Config)) error {
	if _, err := a.outputFormat(); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	if a.logFormat != "" {
		cfg.LogFormat = strings.ToLower(a.logFormat)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Mark(err, ErrUsage)
	}
	a.cfg = cfg
	a.log = logger.NewWithFormat(level, logger.Format(cfg.LogFormat), cmd.ErrOrStderr())
	logger.SetDefault(a.log)

	a.log.Debug("Configuration loaded", logger.Fields{
		"config":     a.configPath,
		"output_dir": cfg.OutputDir,
		"data_dir":   cfg.DataDir,
		"log_level":  cfg.LogLevel,
	})
	return nil
}

func (a *app) outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(a.format))
	if format != FormatText && format != FormatJSON {
		return "", errors.Mark(errors.Newf("invalid format: %s (must be 'text' or 'json')", a.format), ErrUsage)
	}
	return format, nil
}

// write renders v to the command output in the selected format.
func (a *app) write(cmd *cobra.Command, v Renderer) error {
	format, err := a.outputFormat()
	if err != nil {
		return err
	}
	if err := WriteOutput(cmd.OutOrStdout(), v, format); err != nil {
		return errors.Wrap(err, "writing output")
	}
	return nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errors.Mark(err, ErrUsage)
		}
		return nil
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage), strings.HasPrefix(err.Error(), "unknown command"):
		return ExitUsage
	default:
		return ExitError
	}
}

// Run executes the command tree with args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
