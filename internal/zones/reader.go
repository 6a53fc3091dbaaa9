// Package zones loads the hosted zones watch list and the alerting
// destinations from the YAML configuration file.
package zones

import (
	"os"

	"github.com/rs/zerolog"
)

type Reader struct {
	logger zerolog.Logger
	// Fields for mocking in tests.
	readFile func(filename string) ([]byte, error)
}

func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{
		logger:   logger,
		readFile: os.ReadFile,
	}
}
