package health

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zonewatch/zonewatch/internal/models"
)

var (
	ErrZoneLoopStalled = errors.New("zone watch loop stalled")
	ErrZoneFailing     = errors.New("zone cycles failing")
)

// MakeIsHealthy builds the check the health server runs on each probe.
func MakeIsHealthy(statuses StatusGetter, timeNow func() time.Time) func() error {
	return func() (err error) {
		return isHealthy(statuses.Statuses(), timeNow())
	}
}

// isHealthy checks every zone watch loop attempted a cycle recently
// and no zone is stuck in repeated cycle failures.
func isHealthy(statuses map[string]models.ZoneStatus, now time.Time) (err error) {
	zoneNames := make([]string, 0, len(statuses))
	for zoneName := range statuses {
		zoneNames = append(zoneNames, zoneName)
	}
	sort.Strings(zoneNames)

	for _, zoneName := range zoneNames {
		status := statuses[zoneName]
		if status.LastAttempt.IsZero() {
			// the loop has not run its first cycle yet
			continue
		}

		// A slow provider or resolver can stretch a cycle well past
		// a short poll interval, so the late bound has a floor.
		lateAfter := 2 * status.PollInterval
		if lateAfter < time.Minute {
			lateAfter = time.Minute
		}
		sinceAttempt := now.Sub(status.LastAttempt)
		if sinceAttempt > lateAfter {
			return fmt.Errorf("%w: zone %s last attempted a cycle %s ago",
				ErrZoneLoopStalled, zoneName, sinceAttempt.Round(time.Second))
		}

		const maxConsecutiveFailures = 3
		if status.ConsecutiveFailures >= maxConsecutiveFailures {
			return fmt.Errorf("%w: zone %s failed %d consecutive cycles: %s",
				ErrZoneFailing, zoneName, status.ConsecutiveFailures,
				status.LastError)
		}
	}

	return nil
}
