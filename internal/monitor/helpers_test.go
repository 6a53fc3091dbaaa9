package monitor

import (
	"context"
	"sync"

	"github.com/zonewatch/zonewatch/internal/healthchecksio"
	"github.com/zonewatch/zonewatch/internal/models"
)

type collectorStub struct {
	collect func(ctx context.Context, zoneName string) (
		map[string]models.DelegationSet, error)
}

func (c *collectorStub) Collect(ctx context.Context, zoneName string) (
	map[string]models.DelegationSet, error) {
	return c.collect(ctx, zoneName)
}

type detectorStub struct {
	detect func(current map[string]models.DelegationSet) []models.ChangeRecord
}

func (d *detectorStub) Detect(
	current map[string]models.DelegationSet) []models.ChangeRecord {
	return d.detect(current)
}

type historyStub struct {
	save func(current map[string]models.DelegationSet) (bool, error)
}

func (h *historyStub) Save(
	current map[string]models.DelegationSet) (bool, error) {
	return h.save(current)
}

type notifierStub struct {
	alert func(ctx context.Context, channel string,
		changes []models.ChangeRecord)
}

func (n *notifierStub) Alert(ctx context.Context, channel string,
	changes []models.ChangeRecord) {
	n.alert(ctx, channel, changes)
}

type hioStub struct {
	mutex  sync.Mutex
	states []healthchecksio.State
}

func (h *hioStub) Ping(_ context.Context,
	state healthchecksio.State) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.states = append(h.states, state)
	return nil
}

func (h *hioStub) pingedStates() []healthchecksio.State {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	states := make([]healthchecksio.State, len(h.states))
	copy(states, h.states)
	return states
}
