package zones

import "time"

// Zone is one hosted zone to monitor, assembled from one entry of
// the hosted_zones section of the configuration file.
type Zone struct {
	Name        string
	Description string
	// Environment is the hosted_zones group the zone was listed
	// under, for example "prod".
	Environment string
	// AlertChannel is the Slack channel alerts for this zone are
	// sent to, defaulting to the Slack default channel.
	AlertChannel string
	Priority     string
	// PollInterval is how often the zone nameserver IPs are
	// checked.
	PollInterval time.Duration
}
