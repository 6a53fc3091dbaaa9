// Package server provides the main HTTP server of the program, serving
// the Slack interactions callback and the read-only zones and history
// API.
package server

import (
	"github.com/qdm12/goservices"
	"github.com/qdm12/goservices/httpserver"
	"github.com/rs/zerolog"
)

func New(address, rootURL string, history HistoryLoader,
	statuses StatusGetter, notifier ResolutionNotifier,
	logger zerolog.Logger) (service goservices.Service, err error) {
	handler := newHandler(rootURL, logger, history, statuses, notifier)
	name := "server"
	return httpserver.New(httpserver.Settings{
		Handler: handler,
		Name:    &name,
		Address: &address,
		Logger:  &httpLogger{logger: logger},
	})
}
