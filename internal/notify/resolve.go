package notify

import (
	"context"
	"fmt"
)

// ResolveByDomain posts the advisory recovery notice for a domain.
// It does not touch the stored history, so the next real change is
// still detected relative to the data.
func (c *Client) ResolveByDomain(ctx context.Context, domain string) (err error) {
	err = c.post(ctx, resolvePayload(domain))
	if err != nil {
		return fmt.Errorf("sending recovery notice: %w", err)
	}

	c.logger.Info().Str("domain", domain).Msg("recovery_notice_sent")
	return nil
}

func resolvePayload(domain string) payload {
	return payload{
		Attachments: []attachment{
			{
				Color: recoveryColor,
				Blocks: []block{
					{
						Type: "header",
						Text: &blockText{
							Type:  "plain_text",
							Text:  "✅ Nameserver Recovery Detected",
							Emoji: true,
						},
					},
					{
						Type: "section",
						Fields: []blockText{
							{
								Type: "mrkdwn",
								Text: "*Domain:*\n" + domain,
							},
							{
								Type: "mrkdwn",
								Text: "*Status:*\nAll nameserver configurations " +
									"have been verified and updated.",
							},
						},
					},
				},
			},
		},
	}
}
