package detector

import "github.com/zonewatch/zonewatch/internal/models"

type HistoryLoader interface {
	Load() (entries []models.HistoryEntry)
}
