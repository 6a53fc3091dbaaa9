// Package history persists the append-only log of accepted delegation
// states as a single JSON document. Every operation re-reads the backing
// file instead of caching it in memory: at the expected scale (tens of
// zones, infrequent real changes) the document stays small, and making
// the file authoritative keeps concurrent zone loops correct behind one
// mutex.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/qdm12/gosettings"
	"github.com/rs/zerolog"
	"github.com/zonewatch/zonewatch/internal/models"
)

const filename = "nameserver_history.json"

type Settings struct {
	// DataDir is the directory holding the history document.
	DataDir *string
	// RetentionDays is the maximum age of a history entry in days.
	RetentionDays *uint32
	// RetentionEntries caps the number of entries kept after age
	// pruning. Zero means no cap.
	RetentionEntries *uint32
	TimeNow          func() time.Time
	Logger           zerolog.Logger
}

func (s *Settings) SetDefaults() {
	s.DataDir = gosettings.DefaultPointer(s.DataDir, "./data")
	const defaultRetentionDays = 30
	s.RetentionDays = gosettings.DefaultPointer(s.RetentionDays, defaultRetentionDays)
	const defaultRetentionEntries = 1000
	s.RetentionEntries = gosettings.DefaultPointer(s.RetentionEntries, defaultRetentionEntries)
	if s.TimeNow == nil {
		s.TimeNow = time.Now
	}
}

type Database struct {
	filepath   string
	maxAge     time.Duration
	maxEntries uint32
	timeNow    func() time.Time
	logger     zerolog.Logger
	mutex      sync.Mutex
}

func New(settings Settings) *Database {
	settings.SetDefaults()
	return &Database{
		filepath:   filepath.Join(*settings.DataDir, filename),
		maxAge:     time.Duration(*settings.RetentionDays) * 24 * time.Hour,
		maxEntries: *settings.RetentionEntries,
		timeNow:    settings.TimeNow,
		logger:     settings.Logger,
	}
}

// Filepath returns the path of the backing history file, so the
// backup service can archive it.
func (db *Database) Filepath() string {
	return db.filepath
}

type document struct {
	History []models.HistoryEntry `json:"history"`
}

// Load returns the persisted log from oldest to newest. A missing file
// or unreadable content degrades to an empty log with a warning, never
// an error: corrupt history means starting fresh, not crashing.
func (db *Database) Load() (entries []models.HistoryEntry) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.load()
}

func (db *Database) load() (entries []models.HistoryEntry) {
	data, err := os.ReadFile(db.filepath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			db.logger.Warn().Err(err).Str("event", "history_read_failed").
				Str("file", db.filepath).
				Msg("cannot read history, starting fresh")
		}
		return nil
	}

	var doc document
	err = json.Unmarshal(data, &doc)
	if err != nil {
		db.logger.Warn().Err(err).Str("event", "history_corrupt").
			Str("file", db.filepath).
			Msg("cannot parse history, starting fresh")
		return nil
	}
	return doc.History
}

// Save compares current against the tail entry per zone id and, if any
// zone differs or is new, appends a new entry made of the tail carried
// forward with current overlaid, applies retention and persists. Zones
// absent from current keep their tail state, so a partial poll of one
// zone never disturbs the last accepted state of the others. When no
// zone differs the log is left untouched and committed is false.
//
// The load-modify-persist sequence runs under the database mutex so
// saves from concurrently polled zones cannot lose each other's commit.
func (db *Database) Save(current map[string]models.DelegationSet) (
	committed bool, err error) {
	if len(current) == 0 {
		return false, nil
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	entries := db.load()

	delegationSets := make(map[string]models.DelegationSet, len(current))
	var changed bool
	if len(entries) == 0 {
		changed = true
		for zoneID, set := range current {
			delegationSets[zoneID] = set
		}
	} else {
		tail := entries[len(entries)-1].DelegationSets
		for zoneID, set := range tail {
			delegationSets[zoneID] = set
		}
		for zoneID, set := range current {
			previous, ok := tail[zoneID]
			switch {
			case !ok:
				db.logger.Debug().Str("event", "zone_first_seen").
					Str("zone", set.ZoneName).Str("zone_id", zoneID).
					Msg("zone enters history")
				changed = true
			case !previous.Equal(set):
				changed = true
			}
			delegationSets[zoneID] = set
		}
	}

	if !changed {
		return false, nil
	}

	now := db.timeNow()
	entries = append(entries, models.HistoryEntry{
		Timestamp:      now,
		DelegationSets: delegationSets,
	})

	// cutoff derives from the same instant as the new entry timestamp
	// so a zero maximum age can never prune the entry just appended.
	cutoff := now.Add(-db.maxAge)
	entries, prunedByAge, prunedByCount := applyRetention(entries, cutoff, db.maxEntries)
	if prunedByAge > 0 || prunedByCount > 0 {
		db.logger.Debug().Str("event", "history_pruned").
			Int("pruned_by_age", prunedByAge).
			Int("pruned_by_count", prunedByCount).
			Int("entries", len(entries)).
			Msg("retention applied")
	}

	err = db.write(entries)
	if err != nil {
		return false, fmt.Errorf("persisting history: %w", err)
	}
	return true, nil
}

func (db *Database) write(entries []models.HistoryEntry) (err error) {
	data, err := json.MarshalIndent(document{History: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(db.filepath), 0o755)
	if err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	const perms = 0o644
	err = os.WriteFile(db.filepath, data, perms)
	if err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}
	return nil
}
