package zones

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the monitoring configuration assembled from the YAML
// configuration file.
type Config struct {
	// Zones are the hosted zones to monitor, sorted by environment
	// name, keeping the file order within each environment.
	Zones []Zone
	// WebhookURL is the Slack incoming webhook URL alerts are
	// posted to.
	WebhookURL string
	// DefaultChannel is the Slack channel zones without an
	// alert_channel fall back to.
	DefaultChannel string
	// RetentionDays caps the age of history entries.
	// It is nil if the file does not set it.
	RetentionDays *uint32
	// RetentionEntries caps the number of history entries.
	// It is nil if the file does not set it.
	RetentionEntries *uint32
}

type yamlConfig struct {
	Monitoring  *yamlMonitoring       `yaml:"monitoring"`
	HostedZones map[string][]yamlZone `yaml:"hosted_zones"`
	Slack       *yamlSlack            `yaml:"slack"`
}

type yamlMonitoring struct {
	Frequencies      map[string]uint32 `yaml:"frequencies"`
	RetentionDays    *uint32           `yaml:"retention_days"`
	RetentionEntries *uint32           `yaml:"retention_entries"`
}

type yamlZone struct {
	Name           string  `yaml:"name"`
	Description    string  `yaml:"description"`
	AlertChannel   string  `yaml:"alert_channel"`
	Priority       string  `yaml:"priority"`
	CheckFrequency *uint32 `yaml:"check_frequency"`
}

type yamlSlack struct {
	Webhooks       map[string]string `yaml:"webhooks"`
	DefaultChannel string            `yaml:"default_channel"`
}

const (
	defaultFrequencySeconds = 300
	defaultPriority         = "medium"
)

var (
	ErrMonitoringSectionMissing  = errors.New("monitoring section is missing")
	ErrHostedZonesSectionMissing = errors.New("hosted_zones section is missing")
	ErrSlackSectionMissing       = errors.New("slack section is missing")
	ErrFrequenciesMissing        = errors.New("monitoring frequencies are missing")
	ErrZoneNameMissing           = errors.New("zone name is missing")
	ErrZoneDescriptionMissing    = errors.New("zone description is missing")
	ErrFrequencyZero             = errors.New("check frequency cannot be zero")
	ErrWebhookURLMissing         = errors.New("no Slack webhook URL is set")
)

// Read loads the configuration file at the given path and flattens
// its hosted_zones section into the list of zones to monitor.
func (r *Reader) Read(filePath string) (config Config, err error) {
	data, err := r.readFile(filePath)
	if err != nil {
		return Config{}, fmt.Errorf("reading configuration file: %w", err)
	}

	var raw yamlConfig
	err = yaml.Unmarshal(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if raw.Monitoring == nil {
		return Config{}, fmt.Errorf("%w", ErrMonitoringSectionMissing)
	}
	if raw.HostedZones == nil {
		return Config{}, fmt.Errorf("%w", ErrHostedZonesSectionMissing)
	}
	if raw.Slack == nil {
		return Config{}, fmt.Errorf("%w", ErrSlackSectionMissing)
	}
	if raw.Monitoring.Frequencies == nil {
		return Config{}, fmt.Errorf("%w", ErrFrequenciesMissing)
	}

	config.Zones, err = r.flattenZones(raw)
	if err != nil {
		return Config{}, err
	}

	config.WebhookURL, err = slackWebhookURL(raw.Slack.Webhooks)
	if err != nil {
		return Config{}, err
	}

	config.DefaultChannel = raw.Slack.DefaultChannel
	config.RetentionDays = raw.Monitoring.RetentionDays
	config.RetentionEntries = raw.Monitoring.RetentionEntries
	return config, nil
}

func (r *Reader) flattenZones(raw yamlConfig) (zones []Zone, err error) {
	environments := make([]string, 0, len(raw.HostedZones))
	for environment := range raw.HostedZones {
		environments = append(environments, environment)
	}
	sort.Strings(environments)

	for _, environment := range environments {
		environmentFrequency, ok := raw.Monitoring.Frequencies[environment]
		if !ok {
			environmentFrequency = defaultFrequencySeconds
		}

		for i, rawZone := range raw.HostedZones[environment] {
			zone, err := makeZone(rawZone, environment,
				environmentFrequency, raw.Slack.DefaultChannel)
			if err != nil {
				return nil, fmt.Errorf("zone %d of environment %q: %w",
					i+1, environment, err)
			}

			r.logger.Debug().
				Str("zone", zone.Name).
				Str("environment", environment).
				Stringer("poll_interval", zone.PollInterval).
				Msg("zone_configured")

			zones = append(zones, zone)
		}
	}

	return zones, nil
}

func makeZone(rawZone yamlZone, environment string,
	environmentFrequency uint32, defaultChannel string) (zone Zone, err error) {
	if rawZone.Name == "" {
		return Zone{}, fmt.Errorf("%w", ErrZoneNameMissing)
	}
	if rawZone.Description == "" {
		return Zone{}, fmt.Errorf("%w", ErrZoneDescriptionMissing)
	}

	frequency := environmentFrequency
	if rawZone.CheckFrequency != nil {
		frequency = *rawZone.CheckFrequency
	}
	if frequency == 0 {
		return Zone{}, fmt.Errorf("%w", ErrFrequencyZero)
	}

	alertChannel := rawZone.AlertChannel
	if alertChannel == "" {
		alertChannel = defaultChannel
	}

	priority := rawZone.Priority
	if priority == "" {
		priority = defaultPriority
	}

	return Zone{
		Name:         rawZone.Name,
		Description:  rawZone.Description,
		Environment:  environment,
		AlertChannel: alertChannel,
		Priority:     priority,
		PollInterval: time.Duration(frequency) * time.Second,
	}, nil
}

// slackWebhookURL picks the webhook URL to use, preferring the
// "prod" webhook and falling back to the first one by key order.
func slackWebhookURL(webhooks map[string]string) (url string, err error) {
	if webhooks["prod"] != "" {
		return webhooks["prod"], nil
	}

	keys := make([]string, 0, len(webhooks))
	for key, webhookURL := range webhooks {
		if webhookURL != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("%w", ErrWebhookURLMissing)
	}

	sort.Strings(keys)
	return webhooks[keys[0]], nil
}
