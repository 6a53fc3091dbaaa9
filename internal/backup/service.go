// Package backup periodically writes a zip archive of the zones
// configuration file and the history document to an output directory.
package backup

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	// Injected fields
	backupPeriod time.Duration
	outputDir    string
	inputPaths   []string
	logger       zerolog.Logger

	// Internal fields
	stopCh chan<- struct{}
	done   <-chan struct{}
}

func New(backupPeriod time.Duration, outputDir string,
	inputPaths []string, logger zerolog.Logger) *Service {
	return &Service{
		backupPeriod: backupPeriod,
		outputDir:    outputDir,
		inputPaths:   inputPaths,
		logger:       logger,
	}
}

func (s *Service) String() string {
	return "backup"
}

func makeZipFileName() string {
	return "zonewatch-backup-" +
		strconv.FormatInt(time.Now().UnixNano(), 10) + ".zip"
}

func (s *Service) Start(ctx context.Context) (runError <-chan error, startErr error) {
	ready := make(chan struct{})
	runErrorCh := make(chan error)
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	done := make(chan struct{})
	s.done = done
	go run(ready, runErrorCh, stopCh, done,
		s.outputDir, s.inputPaths, s.backupPeriod, s.logger)
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, s.Stop()
	}
	return runErrorCh, nil
}

func run(ready chan<- struct{}, runError chan<- error, stopCh <-chan struct{},
	done chan<- struct{}, outputDir string, inputPaths []string,
	backupPeriod time.Duration, logger zerolog.Logger) {
	defer close(done)

	if backupPeriod == 0 {
		close(ready)
		logger.Info().Msg("backup_disabled")
		return
	}

	logger.Info().Str("period", backupPeriod.String()).
		Str("output_directory", outputDir).
		Msg("backup_scheduled")
	timer := time.NewTimer(backupPeriod)
	close(ready)

	for {
		select {
		case <-timer.C:
		case <-stopCh:
			_ = timer.Stop()
			return
		}
		outputPath := filepath.Join(outputDir, makeZipFileName())
		err := zipFiles(outputPath, inputPaths...)
		if err != nil {
			runError <- err
			return
		}
		logger.Info().Str("file", outputPath).Msg("backup_written")
		timer.Reset(backupPeriod)
	}
}

func (s *Service) Stop() (err error) {
	close(s.stopCh)
	<-s.done
	return nil
}
