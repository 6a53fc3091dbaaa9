package history

import (
	"net/netip"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonewatch/zonewatch/internal/models"
)

func makeDelegationSet(zoneName string, ipv4 ...string) models.DelegationSet {
	addrs := make([]netip.Addr, len(ipv4))
	for i, s := range ipv4 {
		addrs[i] = netip.MustParseAddr(s)
	}
	return models.DelegationSet{
		ZoneName: zoneName,
		Nameservers: map[string]models.NameserverAddrs{
			"ns1." + zoneName: models.NewNameserverAddrs(addrs, nil),
		},
	}
}

func Test_Database_Load_missingFile(t *testing.T) {
	t.Parallel()

	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		Logger:  zerolog.Nop(),
	})

	entries := db.Load()

	assert.Empty(t, entries)
}

func Test_Database_Load_corruptFile(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	err := os.WriteFile(filepath.Join(dataDir, filename),
		[]byte("{not json"), 0o644)
	require.NoError(t, err)

	db := New(Settings{
		DataDir: ptrTo(dataDir),
		Logger:  zerolog.Nop(),
	})

	entries := db.Load()

	assert.Empty(t, entries)
}

func Test_Database_Save_baselineThenIdentical(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		TimeNow: func() time.Time { return now },
		Logger:  zerolog.Nop(),
	})

	current := map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "205.251.195.19"),
	}

	committed, err := db.Save(current)
	require.NoError(t, err)
	assert.True(t, committed)

	// byte-identical second poll is a no-op
	committed, err = db.Save(current)
	require.NoError(t, err)
	assert.False(t, committed)

	entries := db.Load()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Timestamp.Equal(now))
	assert.True(t, entries[0].DelegationSets["/hostedzone/Z1"].
		Equal(current["/hostedzone/Z1"]))
}

func Test_Database_Save_orderInsensitive(t *testing.T) {
	t.Parallel()

	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		Logger:  zerolog.Nop(),
	})

	first := map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com",
			"205.251.195.19", "9.10.11.12"),
	}
	committed, err := db.Save(first)
	require.NoError(t, err)
	require.True(t, committed)

	permuted := map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com",
			"9.10.11.12", "205.251.195.19"),
	}
	committed, err = db.Save(permuted)
	require.NoError(t, err)
	assert.False(t, committed)

	assert.Len(t, db.Load(), 1)
}

func Test_Database_Save_changeAppends(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		TimeNow: func() time.Time { return now },
		Logger:  zerolog.Nop(),
	})

	committed, err := db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "205.251.195.19"),
	})
	require.NoError(t, err)
	require.True(t, committed)

	now = now.Add(5 * time.Minute)
	committed, err = db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "9.10.11.12"),
	})
	require.NoError(t, err)
	assert.True(t, committed)

	entries := db.Load()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Timestamp.After(entries[0].Timestamp))
}

func Test_Database_Save_newZoneCommits(t *testing.T) {
	t.Parallel()

	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		Logger:  zerolog.Nop(),
	})

	committed, err := db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "205.251.195.19"),
	})
	require.NoError(t, err)
	require.True(t, committed)

	committed, err = db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z2": makeDelegationSet("example.org", "9.10.11.12"),
	})
	require.NoError(t, err)
	assert.True(t, committed)

	assert.Len(t, db.Load(), 2)
}

func Test_Database_Save_carriesForwardOtherZones(t *testing.T) {
	t.Parallel()

	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		Logger:  zerolog.Nop(),
	})

	zone1 := makeDelegationSet("example.com", "205.251.195.19")
	zone2 := makeDelegationSet("example.org", "9.10.11.12")

	_, err := db.Save(map[string]models.DelegationSet{"/hostedzone/Z1": zone1})
	require.NoError(t, err)
	_, err = db.Save(map[string]models.DelegationSet{"/hostedzone/Z2": zone2})
	require.NoError(t, err)

	entries := db.Load()
	require.Len(t, entries, 2)

	// the tail still holds the last accepted state of the zone
	// that was not part of the second poll
	tail := entries[len(entries)-1].DelegationSets
	require.Contains(t, tail, "/hostedzone/Z1")
	require.Contains(t, tail, "/hostedzone/Z2")
	assert.True(t, tail["/hostedzone/Z1"].Equal(zone1))
	assert.True(t, tail["/hostedzone/Z2"].Equal(zone2))

	// and an unchanged re-poll of the first zone stays a no-op
	committed, err := db.Save(map[string]models.DelegationSet{"/hostedzone/Z1": zone1})
	require.NoError(t, err)
	assert.False(t, committed)
}

func Test_Database_Save_emptyCurrent(t *testing.T) {
	t.Parallel()

	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		Logger:  zerolog.Nop(),
	})

	committed, err := db.Save(nil)
	require.NoError(t, err)
	assert.False(t, committed)
	assert.Empty(t, db.Load())
}

func Test_Database_Save_persistError(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	blocker := filepath.Join(parent, "data")
	err := os.WriteFile(blocker, []byte("not a directory"), 0o644)
	require.NoError(t, err)

	db := New(Settings{
		DataDir: ptrTo(filepath.Join(blocker, "sub")),
		Logger:  zerolog.Nop(),
	})

	committed, err := db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "205.251.195.19"),
	})
	assert.False(t, committed)
	assert.ErrorContains(t, err, "persisting history")
}

func Test_Database_Save_agePruning(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	db := New(Settings{
		DataDir:       ptrTo(t.TempDir()),
		RetentionDays: ptrTo(uint32(30)),
		TimeNow:       func() time.Time { return now },
		Logger:        zerolog.Nop(),
	})

	_, err := db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "205.251.195.19"),
	})
	require.NoError(t, err)

	now = now.Add(31 * 24 * time.Hour)
	committed, err := db.Save(map[string]models.DelegationSet{
		"/hostedzone/Z1": makeDelegationSet("example.com", "9.10.11.12"),
	})
	require.NoError(t, err)
	require.True(t, committed)

	entries := db.Load()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Timestamp.Equal(now))
}

func Test_Database_Save_countCap(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	db := New(Settings{
		DataDir:          ptrTo(t.TempDir()),
		RetentionEntries: ptrTo(uint32(2)),
		TimeNow:          func() time.Time { return now },
		Logger:           zerolog.Nop(),
	})

	for i, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		now = now.Add(time.Duration(i) * time.Minute)
		committed, err := db.Save(map[string]models.DelegationSet{
			"/hostedzone/Z1": makeDelegationSet("example.com", ip),
		})
		require.NoError(t, err)
		require.True(t, committed)
	}

	entries := db.Load()
	require.Len(t, entries, 2)
	// newest two survive
	assert.Equal(t,
		[]netip.Addr{netip.MustParseAddr("2.2.2.2")},
		entries[0].DelegationSets["/hostedzone/Z1"].Nameservers["ns1.example.com"].IPv4)
	assert.Equal(t,
		[]netip.Addr{netip.MustParseAddr("3.3.3.3")},
		entries[1].DelegationSets["/hostedzone/Z1"].Nameservers["ns1.example.com"].IPv4)
}

func Test_Database_Save_zeroEntriesCapKeepsAll(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	db := New(Settings{
		DataDir:          ptrTo(t.TempDir()),
		RetentionEntries: ptrTo(uint32(0)),
		TimeNow:          func() time.Time { return now },
		Logger:           zerolog.Nop(),
	})

	for i, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		now = now.Add(time.Duration(i) * time.Minute)
		committed, err := db.Save(map[string]models.DelegationSet{
			"/hostedzone/Z1": makeDelegationSet("example.com", ip),
		})
		require.NoError(t, err)
		require.True(t, committed)
	}

	assert.Len(t, db.Load(), 3)
}

func Test_Database_Save_concurrent(t *testing.T) {
	t.Parallel()

	db := New(Settings{
		DataDir: ptrTo(t.TempDir()),
		Logger:  zerolog.Nop(),
	})

	ips := []string{"1.1.1.1", "2.2.2.2", "3.3.3.3", "4.4.4.4", "5.5.5.5"}
	var wg sync.WaitGroup
	wg.Add(len(ips))
	for _, ip := range ips {
		go func(ip string) {
			defer wg.Done()
			zoneID := "/hostedzone/" + ip
			_, err := db.Save(map[string]models.DelegationSet{
				zoneID: makeDelegationSet("zone-"+ip, ip),
			})
			assert.NoError(t, err)
		}(ip)
	}
	wg.Wait()

	// every save saw a new zone so every commit must survive
	entries := db.Load()
	require.Len(t, entries, len(ips))
	assert.Len(t, entries[len(entries)-1].DelegationSets, len(ips))
}

func Test_applyRetention(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entryAt := func(ts time.Time) models.HistoryEntry {
		return models.HistoryEntry{Timestamp: ts}
	}

	testCases := map[string]struct {
		entries       []models.HistoryEntry
		cutoff        time.Time
		maxEntries    uint32
		retained      []models.HistoryEntry
		prunedByAge   int
		prunedByCount int
	}{
		"empty log": {
			cutoff:     base,
			maxEntries: 10,
			retained:   []models.HistoryEntry{},
		},
		"age pruning only": {
			entries: []models.HistoryEntry{
				entryAt(base.Add(-48 * time.Hour)),
				entryAt(base.Add(-2 * time.Hour)),
				entryAt(base),
			},
			cutoff:     base.Add(-24 * time.Hour),
			maxEntries: 10,
			retained: []models.HistoryEntry{
				entryAt(base.Add(-2 * time.Hour)),
				entryAt(base),
			},
			prunedByAge: 1,
		},
		"entry exactly at cutoff kept": {
			entries: []models.HistoryEntry{
				entryAt(base.Add(-24 * time.Hour)),
			},
			cutoff:     base.Add(-24 * time.Hour),
			maxEntries: 10,
			retained: []models.HistoryEntry{
				entryAt(base.Add(-24 * time.Hour)),
			},
		},
		"count cap keeps newest": {
			entries: []models.HistoryEntry{
				entryAt(base.Add(-3 * time.Hour)),
				entryAt(base.Add(-2 * time.Hour)),
				entryAt(base.Add(-time.Hour)),
				entryAt(base),
			},
			cutoff:     base.Add(-24 * time.Hour),
			maxEntries: 2,
			retained: []models.HistoryEntry{
				entryAt(base.Add(-time.Hour)),
				entryAt(base),
			},
			prunedByCount: 2,
		},
		"age pruning before count cap": {
			entries: []models.HistoryEntry{
				entryAt(base.Add(-72 * time.Hour)),
				entryAt(base.Add(-48 * time.Hour)),
				entryAt(base.Add(-time.Hour)),
				entryAt(base),
			},
			cutoff:     base.Add(-24 * time.Hour),
			maxEntries: 3,
			retained: []models.HistoryEntry{
				entryAt(base.Add(-time.Hour)),
				entryAt(base),
			},
			prunedByAge: 2,
		},
		"zero max entries means no cap": {
			entries: []models.HistoryEntry{
				entryAt(base.Add(-time.Hour)),
				entryAt(base),
			},
			cutoff: base.Add(-24 * time.Hour),
			retained: []models.HistoryEntry{
				entryAt(base.Add(-time.Hour)),
				entryAt(base),
			},
		},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			retained, prunedByAge, prunedByCount := applyRetention(
				tc.entries, tc.cutoff, tc.maxEntries)

			assert.Equal(t, tc.retained, retained)
			assert.Equal(t, tc.prunedByAge, prunedByAge)
			assert.Equal(t, tc.prunedByCount, prunedByCount)
		})
	}
}
