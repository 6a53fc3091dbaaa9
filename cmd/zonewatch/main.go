package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/breml/rootcerts"
	"github.com/qdm12/goservices"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gosplash"
	"github.com/rs/zerolog"
	"github.com/zonewatch/zonewatch/internal/backup"
	"github.com/zonewatch/zonewatch/internal/collector"
	"github.com/zonewatch/zonewatch/internal/config"
	"github.com/zonewatch/zonewatch/internal/detector"
	"github.com/zonewatch/zonewatch/internal/health"
	"github.com/zonewatch/zonewatch/internal/healthchecksio"
	"github.com/zonewatch/zonewatch/internal/history"
	"github.com/zonewatch/zonewatch/internal/models"
	"github.com/zonewatch/zonewatch/internal/monitor"
	"github.com/zonewatch/zonewatch/internal/noop"
	"github.com/zonewatch/zonewatch/internal/notify"
	"github.com/zonewatch/zonewatch/internal/provider"
	"github.com/zonewatch/zonewatch/internal/resolver"
	"github.com/zonewatch/zonewatch/internal/server"
	"github.com/zonewatch/zonewatch/internal/shoutrrr"
	"github.com/zonewatch/zonewatch/internal/zones"
)

//nolint:gochecknoglobals
var (
	version = "unknown"
	commit  = "unknown"
	date    = "an unknown date"
)

func main() {
	buildInfo := models.BuildInformation{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	reader := reader.New(reader.Settings{
		HandleDeprecatedKey: func(source, oldKey, newKey string) {
			logger.Warn().Msgf("%q key %s is deprecated, please use %q instead",
				source, oldKey, newKey)
		},
	})

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)

	errorCh := make(chan error)
	go func() {
		errorCh <- _main(ctx, reader, os.Args, logger, buildInfo, time.Now)
	}()

	select {
	case <-ctx.Done():
		stop()
		logger.Warn().Msg("Caught OS signal, shutting down")
	case err := <-errorCh:
		stop()
		close(errorCh)
		if err == nil { // expected exit such as healthcheck
			os.Exit(0)
		}
		logger.Error().Msg(err.Error())
		cancel()
	}

	const shutdownGracePeriod = 5 * time.Second
	timer := time.NewTimer(shutdownGracePeriod)
	select {
	case err := <-errorCh:
		if !timer.Stop() {
			<-timer.C
		}
		if err != nil {
			logger.Error().Msg(err.Error())
		}
		logger.Info().Msg("Shutdown successful")
	case <-timer.C:
		logger.Warn().Msg("Shutdown timed out")
	}

	os.Exit(1)
}

func _main(ctx context.Context, reader *reader.Reader, args []string,
	logger zerolog.Logger, buildInfo models.BuildInformation,
	timeNow func() time.Time) (err error) {
	if len(args) > 1 {
		switch args[1] {
		case "version", "-version", "--version":
			fmt.Println(buildInfo.VersionString())
			return nil
		case "healthcheck":
			// Running the program in a separate instance through the Docker
			// built-in healthcheck, in an ephemeral fashion to query the
			// long running instance of the program about its status
			var healthSettings config.Health
			healthSettings.Read(reader)
			healthSettings.SetDefaults()
			err = healthSettings.Validate()
			if err != nil {
				return fmt.Errorf("health settings: %w", err)
			}

			client := health.NewClient()
			return client.Query(ctx, *healthSettings.ServerAddress)
		}
	}

	printSplash(buildInfo)

	config, logger, err := readConfig(reader, logger)
	if err != nil {
		return err
	}

	shoutrrrSettings := shoutrrr.Settings{
		Addresses:    config.Shoutrrr.Addresses,
		DefaultTitle: config.Shoutrrr.DefaultTitle,
		Logger:       componentLogger(logger, "shoutrrr"),
	}
	shoutrrrClient, err := shoutrrr.New(shoutrrrSettings)
	if err != nil {
		return fmt.Errorf("setting up Shoutrrr: %w", err)
	}

	zonesReader := zones.NewReader(componentLogger(logger, "zones"))
	zonesConfig, err := zonesReader.Read(*config.Paths.Config)
	if err != nil {
		shoutrrrClient.Notify(err.Error())
		return fmt.Errorf("reading zones configuration: %w", err)
	}

	logZonesCount(len(zonesConfig.Zones), logger)

	client := &http.Client{Timeout: config.Client.Timeout}
	defer client.CloseIdleConnections()

	err = health.CheckHTTP(ctx, client)
	if err != nil {
		logger.Warn().Msg(err.Error())
	}

	historyDB := history.New(history.Settings{
		DataDir:          config.Paths.DataDir,
		RetentionDays:    zonesConfig.RetentionDays,
		RetentionEntries: zonesConfig.RetentionEntries,
		TimeNow:          timeNow,
		Logger:           componentLogger(logger, "history"),
	})

	dnsProvider, err := provider.New(ctx, provider.Settings{
		Name:               config.Provider.Name,
		AWSRegion:          config.Provider.AWSRegion,
		AWSAccessKeyID:     config.Provider.AWSAccessKeyID,
		AWSSecretAccessKey: config.Provider.AWSSecretAccessKey,
		GCPProject:         config.Provider.GCPProject,
		GCPCredentialsJSON: []byte(config.Provider.GCPCredentialsJSON),
		Client:             client,
	})
	if err != nil {
		shoutrrrClient.Notify(err.Error())
		return fmt.Errorf("creating DNS provider: %w", err)
	}

	resolverClient, err := resolver.New(config.Resolver)
	if err != nil {
		return fmt.Errorf("creating resolver: %w", err)
	}

	hioClient := healthchecksio.New(client, config.Health.HealthchecksioBaseURL,
		*config.Health.HealthchecksioUUID)

	zoneCollector := collector.New(dnsProvider, resolverClient,
		componentLogger(logger, "collector"))
	changeDetector := detector.New(historyDB,
		componentLogger(logger, "detector"), timeNow)
	notifyClient := notify.New(client, zonesConfig.WebhookURL,
		componentLogger(logger, "notify"))

	monitorService := monitor.New(monitor.Settings{
		Zones:        zonesConfig.Zones,
		Collector:    zoneCollector,
		Detector:     changeDetector,
		History:      historyDB,
		Notifier:     notifyClient,
		HioClient:    hioClient,
		ErrorBackoff: config.Monitor.ErrorBackoff,
		Logger:       componentLogger(logger, "monitor"),
		TimeNow:      timeNow,
	})

	healthServer, err := createHealthServer(monitorService, logger,
		*config.Health.ServerAddress, timeNow)
	if err != nil {
		return fmt.Errorf("creating health server: %w", err)
	}

	server, err := createServer(config.Server, logger,
		historyDB, monitorService, notifyClient)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	var backupService goservices.Service
	backupService = backup.New(*config.Backup.Period, *config.Backup.Directory,
		[]string{*config.Paths.Config, historyDB.Filepath()},
		componentLogger(logger, "backup"))
	backupService, err = goservices.NewRestarter(goservices.RestarterSettings{Service: backupService})
	if err != nil {
		return fmt.Errorf("creating backup restarter: %w", err)
	}

	servicesSequence, err := goservices.NewSequence(goservices.SequenceSettings{
		ServicesStart: []goservices.Service{monitorService, healthServer, server, backupService},
		ServicesStop:  []goservices.Service{server, healthServer, monitorService, backupService},
	})
	if err != nil {
		return fmt.Errorf("creating services sequence: %w", err)
	}

	pingHealthchecksio(hioClient, logger, healthchecksio.Start)

	runError, startErr := servicesSequence.Start(ctx)
	if startErr != nil {
		return fmt.Errorf("starting services: %w", startErr)
	}

	shoutrrrClient.Notify("Launched with " +
		strconv.Itoa(len(zonesConfig.Zones)) + " hosted zones to watch")

	select {
	case <-ctx.Done():
	case err = <-runError:
		pingHealthchecksio(hioClient, logger, healthchecksio.Exit1)
		shoutrrrClient.Notify(err.Error())
		return fmt.Errorf("exiting due to critical error: %w", err)
	}

	err = servicesSequence.Stop()
	if err != nil {
		pingHealthchecksio(hioClient, logger, healthchecksio.Exit1)
		shoutrrrClient.Notify(err.Error())
		return fmt.Errorf("stopping failed: %w", err)
	}

	pingHealthchecksio(hioClient, logger, healthchecksio.Exit0)
	return nil
}

func printSplash(buildInfo models.BuildInformation) {
	splashSettings := gosplash.Settings{
		User:       "zonewatch",
		Repository: "zonewatch",
		Version:    buildInfo.Version,
		Commit:     buildInfo.Commit,
		BuildDate:  buildInfo.Date,
	}
	for _, line := range gosplash.MakeLines(splashSettings) {
		fmt.Println(line)
	}
}

func readConfig(reader *reader.Reader, logger zerolog.Logger) (
	config config.Config, updatedLogger zerolog.Logger, err error) {
	err = config.Read(reader)
	if err != nil {
		return config, logger, fmt.Errorf("reading settings: %w", err)
	}
	config.SetDefaults()
	err = config.Validate()
	if err != nil {
		return config, logger, fmt.Errorf("settings validation: %w", err)
	}

	logger = logger.Level(*config.Logger.Level)
	if *config.Logger.Caller {
		logger = logger.With().Caller().Logger()
	}
	logger.Info().Msg(config.String())

	return config, logger, nil
}

func componentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

func logZonesCount(zonesCount int, logger zerolog.Logger) {
	switch zonesCount {
	case 0:
		logger.Warn().Msg("Found no hosted zone to monitor")
	case 1:
		logger.Info().Msg("Found a single hosted zone to monitor")
	default:
		logger.Info().Msg("Found " + strconv.Itoa(zonesCount) +
			" hosted zones to monitor")
	}
}

func pingHealthchecksio(hioClient *healthchecksio.Client,
	logger zerolog.Logger, state healthchecksio.State) {
	const timeout = 3 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := hioClient.Ping(ctx, state)
	if err != nil {
		logger.Error().Msg(err.Error())
	}
}

//nolint:ireturn
func createHealthServer(statuses health.StatusGetter, logger zerolog.Logger,
	serverAddress string, timeNow func() time.Time) (
	healthServer goservices.Service, err error) {
	if !health.IsDocker() {
		return noop.New("healthcheck server"), nil
	}
	isHealthy := health.MakeIsHealthy(statuses, timeNow)
	healthLogger := componentLogger(logger, "healthcheck server")
	return health.NewServer(serverAddress, healthLogger, isHealthy)
}

//nolint:ireturn
func createServer(config config.Server, logger zerolog.Logger,
	historyDB server.HistoryLoader, statuses server.StatusGetter,
	notifier server.ResolutionNotifier) (
	service goservices.Service, err error) {
	if !*config.Enabled {
		return noop.New("server"), nil
	}
	serverLogger := componentLogger(logger, "http server")
	return server.New(config.ListeningAddress, config.RootURL,
		historyDB, statuses, notifier, serverLogger)
}
