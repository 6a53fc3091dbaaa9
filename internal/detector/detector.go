// Package detector compares freshly collected delegation snapshots
// against the last accepted history entry and produces change records.
package detector

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zonewatch/zonewatch/internal/models"
)

type Detector struct {
	history HistoryLoader
	logger  zerolog.Logger
	timeNow func() time.Time
}

func New(history HistoryLoader, logger zerolog.Logger,
	timeNow func() time.Time) *Detector {
	return &Detector{
		history: history,
		logger:  logger,
		timeNow: timeNow,
	}
}

// Detect returns one change record per nameserver whose address sets
// differ from the last accepted history entry, in deterministic order
// (zone id, then nameserver). An empty history is the baseline case and
// never produces changes; a zone id absent from the history tail is new
// and has no previous addresses to have changed.
func (d *Detector) Detect(current map[string]models.DelegationSet) (
	changes []models.ChangeRecord) {
	entries := d.history.Load()
	if len(entries) == 0 {
		d.logger.Info().Str("event", "baseline").
			Msg("no previous state, establishing baseline")
		return nil
	}

	tail := entries[len(entries)-1].DelegationSets

	zoneIDs := make([]string, 0, len(current))
	for zoneID := range current {
		zoneIDs = append(zoneIDs, zoneID)
	}
	slices.Sort(zoneIDs)

	for _, zoneID := range zoneIDs {
		currentSet := current[zoneID]
		previousSet, ok := tail[zoneID]
		if !ok {
			d.logger.Info().Str("event", "zone_new").
				Str("zone", currentSet.ZoneName).
				Str("zone_id", zoneID).
				Msg("zone not in history yet, nothing to compare")
			continue
		}
		changes = append(changes, d.diffZone(zoneID, currentSet, previousSet)...)
	}
	return changes
}

func (d *Detector) diffZone(zoneID string,
	current, previous models.DelegationSet) (changes []models.ChangeRecord) {
	hosts := make([]string, 0, len(current.Nameservers))
	for host := range current.Nameservers {
		hosts = append(hosts, host)
	}
	// a nameserver present before but gone from the current snapshot is
	// itself a change worth alerting on, reported with an empty new set
	for host := range previous.Nameservers {
		if _, ok := current.Nameservers[host]; !ok {
			hosts = append(hosts, host)
		}
	}
	slices.Sort(hosts)

	for _, host := range hosts {
		currentAddrs := current.Nameservers[host]
		previousAddrs := previous.Nameservers[host]
		if currentAddrs.Equal(previousAddrs) {
			continue
		}

		d.logger.Warn().Str("event", "ip_change").
			Str("zone", current.ZoneName).
			Str("nameserver", host).
			Str("old", previousAddrs.String()).
			Str("new", currentAddrs.String()).
			Msg("nameserver addresses changed")

		changes = append(changes, models.ChangeRecord{
			ID:              uuid.NewString(),
			Kind:            models.ChangeIPAddresses,
			ZoneName:        current.ZoneName,
			DelegationSetID: models.DelegationSetID(zoneID),
			Nameserver:      host,
			OldAddrs:        previousAddrs,
			NewAddrs:        currentAddrs,
			DetectedAt:      d.timeNow(),
		})
	}
	return changes
}
