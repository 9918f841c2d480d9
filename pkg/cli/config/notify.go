package config

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/m-mizutani/relnotes/pkg/domain/types"
	slackinfra "github.com/m-mizutani/relnotes/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Notify holds optional report delivery and error reporting configuration
type Notify struct {
	SlackWebhookURL string `masq:"secret"`
	SentryDSN       string `masq:"secret"`
	SentryEnv       string
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL; the report is also posted there",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("RELNOTES_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Destination: &c.SentryDSN,
			Sources:     cli.EnvVars("RELNOTES_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Value:       "production",
			Destination: &c.SentryEnv,
			Sources:     cli.EnvVars("RELNOTES_SENTRY_ENV"),
		},
	}
}

// Notifier returns the Slack notifier, or nil when no webhook URL is configured
func (c *Notify) Notifier() interfaces.Notifier {
	if c.SlackWebhookURL == "" {
		return nil
	}
	return slackinfra.NewNotifier(c.SlackWebhookURL)
}

// ConfigureSentry initializes Sentry when a DSN is set. The returned function reports an
// error and flushes pending events; it is a no-op without a DSN.
func (c *Notify) ConfigureSentry() (func(err error), error) {
	if c.SentryDSN == "" {
		return func(error) {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.SentryDSN,
		Environment: c.SentryEnv,
		Release:     "relnotes@" + types.Version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Sentry", goerr.T(types.ErrTagConfig))
	}

	return func(err error) {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
	}, nil
}
