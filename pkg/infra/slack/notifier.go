package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

type notifier struct {
	webhookURL string
}

// NewNotifier creates a Notifier posting to a Slack incoming webhook
func NewNotifier(webhookURL string) interfaces.Notifier {
	return &notifier{
		webhookURL: webhookURL,
	}
}

// Notify posts text as a single webhook message
func (n *notifier) Notify(ctx context.Context, text string) error {
	logger := ctxlog.From(ctx)

	msg := &slack.WebhookMessage{
		Text: text,
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post report to Slack")
	}

	logger.Info("Posted report to Slack", "length", len(text))
	return nil
}
