package gtfsrt

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// Sink consumes the messages produced by the poller.
type Sink interface {
	Handle(msg v2x.DecodedMessage) error
}

// Poller periodically fetches a VehiclePositions feed and hands every
// vehicle to a Sink.
type Poller struct {
	client        *Client
	url           string
	interval      time.Duration
	stationIDBase uint64
	sink          Sink

	mu         sync.Mutex
	lastHeader uint64
}

// NewPoller creates a poller for url.
func NewPoller(client *Client, url string, interval time.Duration, stationIDBase uint64, sink Sink) *Poller {
	return &Poller{
		client:        client,
		url:           url,
		interval:      interval,
		stationIDBase: stationIDBase,
		sink:          sink,
	}
}

// Run polls until ctx is cancelled. Fetch errors are logged and retried on
// the next tick.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if stored, err := p.PollOnce(ctx); err != nil {
			log.Printf("[GTFSRT] poll failed: %v", err)
		} else if stored > 0 {
			log.Printf("[GTFSRT] stored %d transit vehicles", stored)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce fetches the feed and stores its vehicles. A feed whose header
// timestamp is not newer than the last one processed is skipped.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	data, err := p.client.Fetch(ctx, p.url)
	if err != nil {
		return 0, err
	}
	feed, err := ParseVehiclePositions(data, p.stationIDBase)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	if feed.HeaderTimestamp != 0 && feed.HeaderTimestamp <= p.lastHeader {
		p.mu.Unlock()
		return 0, nil
	}
	p.lastHeader = feed.HeaderTimestamp
	p.mu.Unlock()

	stored := 0
	for i := range feed.Vehicles {
		rec := feed.Vehicles[i]
		msg := v2x.DecodedMessage{
			Type:        v2x.MessageTransit,
			StationID:   rec.StationID,
			StationType: rec.StationType,
			Vehicle:     &rec,
		}
		if err := p.sink.Handle(msg); err != nil {
			continue
		}
		stored++
	}
	return stored, nil
}
