package server

import (
	"context"

	"github.com/zonewatch/zonewatch/internal/models"
)

type historyLoaderStub struct {
	load func() []models.HistoryEntry
}

func (h *historyLoaderStub) Load() []models.HistoryEntry {
	return h.load()
}

type statusGetterStub struct {
	statuses func() map[string]models.ZoneStatus
}

func (s *statusGetterStub) Statuses() map[string]models.ZoneStatus {
	return s.statuses()
}

type resolutionNotifierStub struct {
	resolveByDomain func(ctx context.Context, domain string) error
}

func (r *resolutionNotifierStub) ResolveByDomain(ctx context.Context,
	domain string) error {
	return r.resolveByDomain(ctx, domain)
}
