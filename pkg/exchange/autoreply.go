package exchange

import (
	"context"

	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"
)

var autoReplySelectFields = []string{"automaticRepliesSetting"}

// GetAutoReply reads one mailbox's auto-reply configuration.
// Calls GET /users/{identity}/mailboxSettings.
func (c *Client) GetAutoReply(ctx context.Context, identity string) (*AutoReplySnapshot, error) {
	settings, err := c.graph.Users().ByUserId(identity).MailboxSettings().Get(ctx,
		&users.ItemMailboxSettingsRequestBuilderGetRequestConfiguration{
			QueryParameters: &users.ItemMailboxSettingsRequestBuilderGetQueryParameters{
				Select: autoReplySelectFields,
			},
		})
	if err != nil {
		return nil, transformGraphError(err)
	}

	return snapshotFromSettings(settings), nil
}

// SetAutoReply pushes one auto-reply configuration to one mailbox.
// Calls PATCH /users/{identity}/mailboxSettings.
func (c *Client) SetAutoReply(ctx context.Context, identity string, cfg *AutoReplyConfig) error {
	body := models.NewMailboxSettings()
	body.SetAutomaticRepliesSetting(cfg.graphSetting())

	_, err := c.graph.Users().ByUserId(identity).MailboxSettings().Patch(ctx, body, nil)
	if err != nil {
		return transformGraphError(err)
	}

	return nil
}
