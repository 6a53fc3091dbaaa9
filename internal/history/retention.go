package history

import (
	"time"

	"github.com/zonewatch/zonewatch/internal/models"
)

// applyRetention prunes entries older than cutoff first, then caps the
// survivors to maxEntries, dropping the oldest surplus. The order of the
// two passes matters: age pruning may already bring the log under the
// cap, and the count cap must only ever remove the oldest entries.
func applyRetention(entries []models.HistoryEntry, cutoff time.Time,
	maxEntries uint32) (retained []models.HistoryEntry,
	prunedByAge, prunedByCount int) {
	retained = make([]models.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Timestamp.Before(cutoff) {
			prunedByAge++
			continue
		}
		retained = append(retained, entry)
	}

	if maxEntries > 0 && uint32(len(retained)) > maxEntries {
		prunedByCount = len(retained) - int(maxEntries)
		retained = retained[prunedByCount:]
	}
	return retained, prunedByAge, prunedByCount
}
