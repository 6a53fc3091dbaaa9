package health

import (
	"github.com/zonewatch/zonewatch/internal/models"
)

type StatusGetter interface {
	Statuses() map[string]models.ZoneStatus
}
