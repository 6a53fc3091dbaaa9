package models

import "time"

// ZoneStatus is the monitoring state of one configured zone. The
// monitor owns and updates it; the health check and the zones API
// read copies of it.
type ZoneStatus struct {
	Zone                string
	Environment         string
	PollInterval        time.Duration
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastCommit          time.Time
	LastError           string
	ConsecutiveFailures uint32
	ChangesDetected     uint64
}
