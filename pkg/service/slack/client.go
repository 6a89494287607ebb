package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

// Client posts report output to Slack
type Client struct {
	api *slack.Client
}

var _ interfaces.Notifier = &Client{}

// New creates a new Slack notifier with the provided bot token
func New(token string) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	return &Client{
		api: slack.New(token),
	}, nil
}

// BuildAttachment renders one report page as a colored Slack attachment
func BuildAttachment(page model.ReportPage) slack.Attachment {
	fields := make([]slack.AttachmentField, 0, len(page.Details))
	for i := range page.Details {
		fields = append(fields, slack.AttachmentField{
			Title: page.Details[i].Title,
			Value: page.Details[i].FieldValue(),
		})
	}

	return slack.Attachment{
		Title:     page.Title(),
		TitleLink: page.UserURL(),
		Color:     fmt.Sprintf("#%06x", page.Color().Accent()),
		Fields:    fields,
	}
}

// PostPages sends all pages of one report run as a single message
func (c *Client) PostPages(ctx context.Context, channel string, pages []model.ReportPage) error {
	if channel == "" {
		return goerr.New("channel is required")
	}

	attachments := make([]slack.Attachment, 0, len(pages))
	for _, page := range pages {
		attachments = append(attachments, BuildAttachment(page))
	}

	_, _, err := c.api.PostMessageContext(ctx, channel,
		slack.MsgOptionAttachments(attachments...))
	if err != nil {
		return goerr.Wrap(err, "failed to post report pages",
			goerr.V("channel", channel),
			goerr.V("pages", len(pages)))
	}
	return nil
}

// PostNotice sends a plain text notice
func (c *Client) PostNotice(ctx context.Context, channel string, text string) error {
	if channel == "" {
		return goerr.New("channel is required")
	}

	_, _, err := c.api.PostMessageContext(ctx, channel,
		slack.MsgOptionText(text, false))
	if err != nil {
		return goerr.Wrap(err, "failed to post notice", goerr.V("channel", channel))
	}
	return nil
}
