package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/cli/config"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

const (
	// ExitConfigError is the exit status for missing or invalid configuration
	ExitConfigError = 2
	// ExitFailure is the exit status for any other failure
	ExitFailure = 1
)

type runConfig struct {
	stdout io.Writer
	stderr io.Writer
}

// Option is a functional option for Run
type Option func(*runConfig)

// WithStdout sets the writer receiving the report and usage message
func WithStdout(w io.Writer) Option {
	return func(c *runConfig) {
		c.stdout = w
	}
}

// WithStderr sets the writer receiving log output
func WithStderr(w io.Writer) Option {
	return func(c *runConfig) {
		c.stderr = w
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	rc := &runConfig{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(rc)
	}

	loggerCfg := config.Logger{Writer: rc.stderr}
	var logger *slog.Logger

	fetchFlags, fetch := fetchAction(rc.stdout)
	app := &cli.Command{
		Name:      "relnotes",
		Usage:     "Print a year of GitHub release notes filtered by category",
		Version:   types.Version,
		Writer:    rc.stdout,
		ErrWriter: rc.stderr,
		Flags:     append(loggerCfg.Flags(), fetchFlags...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			logger = logger.With("run_id", uuid.NewString())
			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Action: fetch,
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(rc.stderr, nil))
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}

// ExitCode maps an error returned by Run to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case goerr.HasTag(err, types.ErrTagConfig):
		return ExitConfigError
	default:
		return ExitFailure
	}
}
