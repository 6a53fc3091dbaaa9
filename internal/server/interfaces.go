package server

import (
	"context"

	"github.com/zonewatch/zonewatch/internal/models"
)

type HistoryLoader interface {
	Load() (entries []models.HistoryEntry)
}

type StatusGetter interface {
	Statuses() map[string]models.ZoneStatus
}

type ResolutionNotifier interface {
	ResolveByDomain(ctx context.Context, domain string) (err error)
}
