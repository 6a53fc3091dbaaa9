// Package shoutrrr sends operational notifications such as launch and
// fatal error messages to the configured shoutrrr services. Nameserver
// change alerts go through internal/notify instead, since they carry
// interactive Slack attachments shoutrrr cannot express.
package shoutrrr

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/containrrr/shoutrrr"
	"github.com/containrrr/shoutrrr/pkg/router"
	"github.com/rs/zerolog"
)

type Client struct {
	sender   *router.ServiceRouter
	services []string
	logger   zerolog.Logger
}

func New(settings Settings) (client *Client, err error) {
	settings.setDefaults()
	err = settings.validate()
	if err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	services := make([]string, len(settings.Addresses))
	for i, address := range settings.Addresses {
		services[i] = strings.Split(address, ":")[0]
		settings.Addresses[i], err = withTitleParam(address, settings.DefaultTitle)
		if err != nil {
			return nil, fmt.Errorf("%s address: %w", services[i], err)
		}
	}

	sender, err := shoutrrr.CreateSender(settings.Addresses...)
	if err != nil {
		return nil, fmt.Errorf("creating service router: %w", err)
	}

	return &Client{
		sender:   sender,
		services: services,
		logger:   settings.Logger,
	}, nil
}

// Notify sends the message to every configured service. Failures are
// logged per service and never returned, since an operational notice
// is not worth failing its caller for.
func (c *Client) Notify(message string) {
	errs := c.sender.Send(message, nil)
	for i, err := range errs {
		if err != nil {
			c.logger.Error().Err(err).Str("service", c.services[i]).
				Msg("shoutrrr_send_failed")
		}
	}
}

// withTitleParam adds the title query parameter to the address,
// unless the address carries one already.
func withTitleParam(address, title string) (updated string, err error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("parsing address as url: %w", err)
	}

	query := u.Query()
	if query.Has("title") {
		return address, nil
	}

	query.Set("title", title)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
