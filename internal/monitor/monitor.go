// Package monitor runs one polling loop per configured zone, driving
// the collect, detect, notify and commit cycle and keeping a per-zone
// status registry.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zonewatch/zonewatch/internal/models"
	"github.com/zonewatch/zonewatch/internal/zones"
)

type Service struct {
	// Injected fields
	zones        []zones.Zone
	collector    Collector
	detector     Detector
	history      History
	notifier     Notifier
	hioClient    HealthchecksIOClient
	errorBackoff time.Duration
	logger       zerolog.Logger
	timeNow      func() time.Time

	// Internal fields
	statusesMutex sync.RWMutex
	statuses      map[string]models.ZoneStatus
	stopCh        chan<- struct{}
	done          <-chan struct{}
}

type Settings struct {
	Zones        []zones.Zone
	Collector    Collector
	Detector     Detector
	History      History
	Notifier     Notifier
	HioClient    HealthchecksIOClient
	ErrorBackoff time.Duration
	Logger       zerolog.Logger
	TimeNow      func() time.Time
}

func New(settings Settings) *Service {
	if settings.ErrorBackoff == 0 {
		settings.ErrorBackoff = time.Minute
	}
	if settings.TimeNow == nil {
		settings.TimeNow = time.Now
	}
	return &Service{
		zones:        settings.Zones,
		collector:    settings.Collector,
		detector:     settings.Detector,
		history:      settings.History,
		notifier:     settings.Notifier,
		hioClient:    settings.HioClient,
		errorBackoff: settings.ErrorBackoff,
		logger:       settings.Logger,
		timeNow:      settings.TimeNow,
		statuses:     make(map[string]models.ZoneStatus),
	}
}

func (s *Service) String() string {
	return "monitor"
}

func (s *Service) Start(_ context.Context) (runError <-chan error, startErr error) {
	runErrorCh := make(chan error)
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	done := make(chan struct{})
	s.done = done

	s.statusesMutex.Lock()
	for _, zone := range s.zones {
		s.statuses[zone.Name] = models.ZoneStatus{
			Zone:         zone.Name,
			Environment:  zone.Environment,
			PollInterval: zone.PollInterval,
		}
	}
	s.statusesMutex.Unlock()

	var wg sync.WaitGroup
	wg.Add(len(s.zones))
	for _, zone := range s.zones {
		go s.watchZone(zone, stopCh, &wg)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	return runErrorCh, nil
}

func (s *Service) Stop() (err error) {
	close(s.stopCh)
	<-s.done
	return nil
}

// Statuses returns a copy of the zone status registry.
func (s *Service) Statuses() map[string]models.ZoneStatus {
	s.statusesMutex.RLock()
	defer s.statusesMutex.RUnlock()
	statuses := make(map[string]models.ZoneStatus, len(s.statuses))
	for zoneName, status := range s.statuses {
		statuses[zoneName] = status
	}
	return statuses
}

func (s *Service) updateStatus(zoneName string,
	update func(status *models.ZoneStatus)) {
	s.statusesMutex.Lock()
	defer s.statusesMutex.Unlock()
	status := s.statuses[zoneName]
	update(&status)
	s.statuses[zoneName] = status
}
