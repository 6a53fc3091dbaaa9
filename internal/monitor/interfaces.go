package monitor

import (
	"context"

	"github.com/zonewatch/zonewatch/internal/healthchecksio"
	"github.com/zonewatch/zonewatch/internal/models"
)

type Collector interface {
	Collect(ctx context.Context, zoneName string) (
		current map[string]models.DelegationSet, err error)
}

type Detector interface {
	Detect(current map[string]models.DelegationSet) (
		changes []models.ChangeRecord)
}

type History interface {
	Save(current map[string]models.DelegationSet) (committed bool, err error)
}

type Notifier interface {
	Alert(ctx context.Context, channel string, changes []models.ChangeRecord)
}

type HealthchecksIOClient interface {
	Ping(ctx context.Context, state healthchecksio.State) (err error)
}
