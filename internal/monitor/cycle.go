package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zonewatch/zonewatch/internal/healthchecksio"
	"github.com/zonewatch/zonewatch/internal/models"
	"github.com/zonewatch/zonewatch/internal/zones"
)

var ErrCyclePanicked = errors.New("monitoring cycle panicked")

// watchZone is the dedicated loop of one zone: an immediate first
// cycle, then one cycle per poll interval, counted from the end of
// the previous cycle. Stops are observed between cycles only, so an
// in-flight cycle always completes.
func (s *Service) watchZone(zone zones.Zone, stopCh <-chan struct{},
	wg *sync.WaitGroup) {
	defer wg.Done()

	logger := s.logger.With().Str("zone", zone.Name).Logger()
	logger.Info().
		Str("environment", zone.Environment).
		Stringer("poll_interval", zone.PollInterval).
		Msg("zone_watch_started")

	timer := time.NewTimer(0) // the first cycle runs immediately
	for {
		select {
		case <-timer.C:
		case <-stopCh:
			_ = timer.Stop()
			logger.Info().Msg("zone_watch_stopped")
			return
		}
		timer.Reset(s.runCycle(zone, logger))
	}
}

// runCycle runs one cycle and returns how long to sleep before the
// next one: the zone's poll interval normally, or the error backoff,
// capped to the poll interval, after a failed cycle.
func (s *Service) runCycle(zone zones.Zone,
	logger zerolog.Logger) (sleep time.Duration) {
	s.updateStatus(zone.Name, func(status *models.ZoneStatus) {
		status.LastAttempt = s.timeNow()
	})

	result, err := s.cycle(zone, logger)

	hioState := healthchecksio.Ok
	if err != nil || result.saveErr != nil {
		hioState = healthchecksio.Fail
	}
	pingErr := s.hioClient.Ping(context.Background(), hioState)
	if pingErr != nil {
		logger.Warn().Err(pingErr).Msg("healthchecksio_ping_failed")
	}

	if err != nil {
		logger.Error().Err(err).Msg("cycle_failed")
		s.updateStatus(zone.Name, func(status *models.ZoneStatus) {
			status.ConsecutiveFailures++
			status.LastError = err.Error()
		})
		backoff := s.errorBackoff
		if zone.PollInterval < backoff {
			backoff = zone.PollInterval
		}
		return backoff
	}

	now := s.timeNow()
	s.updateStatus(zone.Name, func(status *models.ZoneStatus) {
		status.LastSuccess = now
		status.ConsecutiveFailures = 0
		status.LastError = ""
		if result.saveErr != nil {
			status.LastError = result.saveErr.Error()
		}
		if result.committed {
			status.LastCommit = now
		}
		status.ChangesDetected += uint64(result.changes)
	})
	return zone.PollInterval
}

type cycleResult struct {
	committed bool
	changes   int
	saveErr   error
}

// cycle collects the zone's state, detects and notifies changes, and
// commits the state to history. A panic is turned into an error here
// so a broken dependency can never kill the zone's loop. A commit
// error is reported in the result rather than as a cycle error: the
// diff result already stands and durability returns on the next tick.
func (s *Service) cycle(zone zones.Zone, logger zerolog.Logger) (
	result cycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCyclePanicked, r)
		}
	}()

	// Cycles run on a background context so shutting down never
	// aborts an in-flight history write.
	ctx := context.Background()

	current, err := s.collector.Collect(ctx, zone.Name)
	if err != nil {
		return result, fmt.Errorf("collecting zone state: %w", err)
	}

	if len(current) == 0 {
		logger.Warn().Msg("zone_not_found")
		return result, nil
	}

	changes := s.detector.Detect(current)
	result.changes = len(changes)
	if len(changes) > 0 {
		s.notifier.Alert(ctx, zone.AlertChannel, changes)
	}

	result.committed, result.saveErr = s.history.Save(current)
	if result.saveErr != nil {
		logger.Error().Err(result.saveErr).Msg("history_save_failed")
	} else if result.committed {
		logger.Info().Int("changes", result.changes).Msg("state_committed")
	}

	return result, nil
}
