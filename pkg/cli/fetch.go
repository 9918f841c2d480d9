package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/cli/config"
	"github.com/m-mizutani/relnotes/pkg/controller/console"
	"github.com/m-mizutani/relnotes/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// fetchAction returns the flags and action of the release notes fetch. The action writes the
// report (or the usage message on missing configuration) to stdout.
func fetchAction(stdout io.Writer) ([]cli.Flag, cli.ActionFunc) {
	var (
		githubCfg config.GitHub
		reportCfg config.Report
		notifyCfg config.Notify
	)

	flags := append(githubCfg.Flags(), reportCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return flags, func(ctx context.Context, c *cli.Command) error {
		logger := ctxlog.From(ctx)

		if err := githubCfg.Validate(); err != nil {
			if _, werr := io.WriteString(stdout, config.Usage); werr != nil {
				logger.Warn("Failed to write usage", "error", werr)
			}
			return err
		}

		year := githubCfg.TargetYear()
		logger.Debug("Configuration loaded",
			slog.Any("github", githubCfg),
			slog.Any("report", reportCfg),
			slog.Int("year", year),
		)

		report, err := notifyCfg.ConfigureSentry()
		if err != nil {
			return err
		}

		if err := runFetch(ctx, stdout, &githubCfg, &reportCfg, &notifyCfg, year); err != nil {
			report(err)
			return err
		}
		return nil
	}
}

func runFetch(ctx context.Context, stdout io.Writer, githubCfg *config.GitHub, reportCfg *config.Report, notifyCfg *config.Notify, year int) error {
	filter, err := reportCfg.SectionFilter()
	if err != nil {
		return err
	}

	client, err := githubCfg.NewClient(ctx)
	if err != nil {
		return err
	}

	releaseUC := usecase.NewRelease(client, filter,
		usecase.WithPerPage(reportCfg.PerPage),
		usecase.WithMaxPages(reportCfg.MaxPages),
	)

	releases, err := releaseUC.FetchReleasesForYear(ctx, githubCfg.Owner, githubCfg.Repo, year)
	if err != nil {
		return goerr.Wrap(err, "error fetching releases")
	}

	printer := console.NewPrinter(stdout, console.WithColor(reportCfg.Color))
	if err := printer.Print(githubCfg.Repo, year, releases); err != nil {
		return err
	}

	if notifier := notifyCfg.Notifier(); notifier != nil {
		// Slack gets the plain text regardless of terminal color settings
		text := console.NewPrinter(io.Discard).Render(githubCfg.Repo, year, releases)
		if err := notifier.Notify(ctx, text); err != nil {
			return err
		}
	}

	return nil
}
