package notify

import (
	"context"
	"fmt"

	"github.com/zonewatch/zonewatch/internal/models"
)

const detectionTimeFormat = "2006-01-02 15:04:05"

// Alert posts one webhook message per change record to the given
// channel, or to the webhook's own channel if it is empty. Delivery
// failures are logged and swallowed: an alert outage must not prevent
// the new state from being committed, or every following poll would
// re-report the same already-known change.
func (c *Client) Alert(ctx context.Context, channel string,
	changes []models.ChangeRecord) {
	for _, change := range changes {
		err := c.post(ctx, alertPayload(channel, change))
		if err != nil {
			c.logger.Error().Err(err).
				Str("zone", change.ZoneName).
				Str("nameserver", change.Nameserver).
				Msg("alert_delivery_failed")
			continue
		}
		c.logger.Info().
			Str("zone", change.ZoneName).
			Str("nameserver", change.Nameserver).
			Str("channel", channel).
			Msg("alert_sent")
	}
}

func alertPayload(channel string, change models.ChangeRecord) payload {
	changeText := fmt.Sprintf(
		"📝 *Nameserver IP Change*\n*Zone:* %s\n*ID:* `/hostedzone/%s`\n*Nameserver:* `%s`",
		change.ZoneName, change.DelegationSetID, change.Nameserver)

	return payload{
		Channel: channel,
		Attachments: []attachment{
			{
				Color: alertColor,
				Blocks: []block{
					{
						Type: "header",
						Text: &blockText{
							Type:  "plain_text",
							Text:  "🚨 Nameserver Alert! 🚨",
							Emoji: true,
						},
					},
					{
						Type: "section",
						Fields: []blockText{
							{
								Type: "mrkdwn",
								Text: "*Domain:*\n" + change.ZoneName,
							},
							{
								Type: "mrkdwn",
								Text: "*Detection Time:*\n" +
									change.DetectedAt.Format(detectionTimeFormat),
							},
						},
					},
					{
						Type: "section",
						Text: &blockText{
							Type: "mrkdwn",
							Text: changeText,
						},
					},
					{
						Type: "section",
						Fields: []blockText{
							{
								Type: "mrkdwn",
								Text: "*Previous IPs:*\n`" + change.OldAddrs.String() + "`",
							},
							{
								Type: "mrkdwn",
								Text: "*New IPs:*\n`" + change.NewAddrs.String() + "`",
							},
						},
					},
					{
						Type: "context",
						Elements: []any{
							blockText{
								Type: "mrkdwn",
								Text: "🔍 Zonewatch Nameserver Monitor",
							},
						},
					},
				},
			},
			{
				Color: alertColor,
				Blocks: []block{
					{
						Type: "actions",
						Elements: []any{
							button{
								Type: "button",
								Text: blockText{
									Type:  "plain_text",
									Text:  "✅ Resolve",
									Emoji: true,
								},
								Style:    "primary",
								ActionID: ResolveActionID,
							},
						},
					},
				},
			},
		},
	}
}
