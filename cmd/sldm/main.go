package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/sldm/api"
	"github.com/theoremus-urban-solutions/sldm/config"
	"github.com/theoremus-urban-solutions/sldm/gtfsrt"
	"github.com/theoremus-urban-solutions/sldm/ingest"
	"github.com/theoremus-urban-solutions/sldm/internal"
	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/metrics"
	"github.com/theoremus-urban-solutions/sldm/security"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func main() {
	configPath := flag.String("config", "", "path to config.yml (default: ./config.yml or ./config/config.yml)")
	natsURL := flag.String("nats", "", "NATS URL carrying decoded messages (overrides config)")
	port := flag.Int("port", 0, "HTTP API port (overrides config)")
	vehiclePositions := flag.String("vehiclePositions", "", "GTFS-RT VehiclePositions URL or file (overrides config)")
	instance := flag.String("instance", "", "name prepended to every log line")
	flag.Parse()

	internal.InitLogging(*instance)

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	if err := config.LoadAppConfig(paths...); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Config
	if *natsURL != "" {
		cfg.Broker.URL = *natsURL
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *vehiclePositions != "" {
		cfg.Transit.VehiclePositionsURL = *vehiclePositions
	}

	clientID := uuid.NewString()
	log.Printf("starting sldm %s", clientID)

	var (
		collector *metrics.Collector
		registry  *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		collector = metrics.NewCollector(registry)
	}

	notifier := ldm.NewNotifier()
	vehicles := ldm.NewVehicleStore(ldm.WithPathHistoryLength(cfg.Store.PathHistoryLength))
	vehicles.SetCenter(cfg.Center.Lat, cfg.Center.Lon)
	events := ldm.NewEventStore(ldm.WithNotifier(notifier))
	certs := security.NewCertificateStore()

	pipeline := ingest.NewPipeline(vehicles, events, certs,
		ingest.WithAreaFilter(ingest.AreaFilterFromConfig(cfg.Area)),
		ingest.WithAgeCheck(!cfg.Store.DisableAgeCheck),
		ingest.WithMetrics(collector),
		ingest.WithClientID(clientID),
	)

	sweeper := &ingest.Sweeper{
		Vehicles:          vehicles,
		Events:            events,
		Certificates:      certs,
		Pipeline:          pipeline,
		Metrics:           collector,
		Interval:          ms(cfg.Store.SweepIntervalMS),
		VehicleMaxAge:     ms(cfg.Store.VehicleMaxAgeMS),
		CertificateMaxAge: ms(cfg.Store.CertificateMaxAgeMS),
	}

	serverOpts := []api.Option{api.WithNotifier(notifier), api.WithClientID(clientID)}
	if registry != nil {
		serverOpts = append(serverOpts, api.WithMetrics(collector, registry))
	}
	server := api.NewServer(cfg.Server.Port, vehicles, events, certs, serverOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return server.Run(ctx) })
	g.Go(func() error { return sweeper.Run(ctx) })

	if cfg.Broker.URL != "" {
		sub := ingest.NewSubscriber(cfg.Broker.Subject, cfg.Broker.QueueGroup, ingest.JSONDecoder{}, pipeline)
		if err := sub.Connect(cfg.Broker.URL, "sldm-"+clientID, ms(cfg.Broker.ReconnectWaitMS)); err != nil {
			log.Fatalf("failed to connect broker: %v", err)
		}
		g.Go(func() error { return sub.Run(ctx) })
	} else {
		log.Printf("[NATS] no broker configured, V2X ingestion disabled")
	}

	if cfg.Transit.VehiclePositionsURL != "" {
		client := gtfsrt.NewClient(ms(cfg.Transit.TimeoutMS))
		poller := gtfsrt.NewPoller(client, cfg.Transit.VehiclePositionsURL, ms(cfg.Transit.ReadIntervalMS), cfg.Transit.StationIDBase, pipeline)
		g.Go(func() error { return poller.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("sldm stopped: %v", err)
	}
	log.Printf("shutdown complete")
}
