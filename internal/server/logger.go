package server

import "github.com/rs/zerolog"

// httpLogger adapts zerolog to the plain string logger the goservices
// http server expects.
type httpLogger struct {
	logger zerolog.Logger
}

func (l *httpLogger) Debug(s string) { l.logger.Debug().Msg(s) }
func (l *httpLogger) Info(s string)  { l.logger.Info().Msg(s) }
func (l *httpLogger) Warn(s string)  { l.logger.Warn().Msg(s) }
func (l *httpLogger) Error(s string) { l.logger.Error().Msg(s) }
