package config

import (
	"net"
	"strings"

	"github.com/qdm12/gosettings/reader"
	"github.com/zonewatch/zonewatch/internal/resolver"
)

func readResolver(r *reader.Reader) (settings resolver.Settings, err error) {
	settings.Address = r.Get("RESOLVER_ADDRESS")
	if settings.Address != nil && *settings.Address != "" {
		// conveniently add the default DNS port if not specified
		_, _, splitErr := net.SplitHostPort(*settings.Address)
		if splitErr != nil && strings.Contains(splitErr.Error(), "missing port") {
			*settings.Address = net.JoinHostPort(*settings.Address, "53")
		}
	}
	settings.Timeout, err = r.Duration("RESOLVER_TIMEOUT")
	return settings, err
}
