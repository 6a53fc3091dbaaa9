package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/zonewatch/zonewatch/internal/models"
)

type zoneStatusJSON struct {
	Zone                string `json:"zone"`
	Environment         string `json:"environment"`
	PollInterval        string `json:"poll_interval"`
	LastAttempt         string `json:"last_attempt,omitempty"`
	LastSuccess         string `json:"last_success,omitempty"`
	LastCommit          string `json:"last_commit,omitempty"`
	LastError           string `json:"last_error,omitempty"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
	ChangesDetected     uint64 `json:"changes_detected"`
}

type zonesJSONWrapper struct {
	Zones []zoneStatusJSON `json:"zones"`
}

func (h *handlers) getZones(w http.ResponseWriter, _ *http.Request) {
	statuses := h.statuses.Statuses()

	zoneNames := make([]string, 0, len(statuses))
	for zoneName := range statuses {
		zoneNames = append(zoneNames, zoneName)
	}
	sort.Strings(zoneNames)

	response := zonesJSONWrapper{
		Zones: make([]zoneStatusJSON, 0, len(statuses)),
	}
	for _, zoneName := range zoneNames {
		response.Zones = append(response.Zones,
			makeZoneStatusJSON(zoneName, statuses[zoneName]))
	}

	w.Header().Set("Cache-Control", "no-cache")
	respondJSON(w, http.StatusOK, response)
}

func makeZoneStatusJSON(zoneName string,
	status models.ZoneStatus) zoneStatusJSON {
	return zoneStatusJSON{
		Zone:                zoneName,
		Environment:         status.Environment,
		PollInterval:        status.PollInterval.String(),
		LastAttempt:         formatTime(status.LastAttempt),
		LastSuccess:         formatTime(status.LastSuccess),
		LastCommit:          formatTime(status.LastCommit),
		LastError:           status.LastError,
		ConsecutiveFailures: status.ConsecutiveFailures,
		ChangesDetected:     status.ChangesDetected,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
