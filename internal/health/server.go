// Package health provides the local health server probed by the
// healthcheck sub-command, the health check over the monitor zone
// statuses, and the startup connectivity check.
package health

import (
	"github.com/qdm12/goservices/httpserver"
	"github.com/rs/zerolog"
)

func NewServer(address string, logger zerolog.Logger, healthcheck func() error) (
	server *httpserver.Server, err error) {
	name := "health"
	return httpserver.New(httpserver.Settings{
		Handler: newHandler(healthcheck),
		Name:    &name,
		Address: &address,
		Logger:  &httpLogger{logger: logger},
	})
}
