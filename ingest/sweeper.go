package ingest

import (
	"context"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/metrics"
	"github.com/theoremus-urban-solutions/sldm/security"
)

// Sweeper periodically expires stale vehicles, events and certificates.
type Sweeper struct {
	Vehicles     *ldm.VehicleStore
	Events       *ldm.EventStore
	Certificates *security.CertificateStore
	// Pipeline, when set, forgets perceived-object ids of evicted vehicles.
	Pipeline *Pipeline
	Metrics  *metrics.Collector

	Interval          time.Duration
	VehicleMaxAge     time.Duration
	CertificateMaxAge time.Duration
}

// SweepResult counts the entries removed by one sweep.
type SweepResult struct {
	Vehicles     int
	Events       int
	Certificates int
	// ExpiredEvents lists the keys of the removed events.
	ExpiredEvents []uint64
}

// Run sweeps every Interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r := s.SweepOnce()
			if r.Vehicles+r.Events+r.Certificates > 0 {
				log.Printf("[SWEEP] removed vehicles=%d events=%d certificates=%d", r.Vehicles, r.Events, r.Certificates)
			}
		}
	}
}

// SweepOnce runs a single expiry pass over every store.
func (s *Sweeper) SweepOnce() SweepResult {
	var r SweepResult

	var evicted []uint64
	r.Vehicles = s.Vehicles.DeleteOlderThanAndExecute(s.VehicleMaxAge, func(id uint64) {
		evicted = append(evicted, id)
	})
	// forgetting reads the vehicle store, so it runs after the shard locks are released
	if s.Pipeline != nil {
		for _, id := range evicted {
			s.Pipeline.Forget(id)
		}
	}

	var expired []uint64
	r.Events = s.Events.DeleteExpiredAndExecute(func(key uint64) {
		expired = append(expired, key)
	})
	for _, key := range expired {
		log.Printf("[SWEEP] event %016x expired", key)
	}
	r.ExpiredEvents = expired
	if s.Certificates != nil {
		r.Certificates = s.Certificates.DeleteOlderThan(s.CertificateMaxAge)
	}

	s.Metrics.Evicted("vehicles", r.Vehicles)
	s.Metrics.Evicted("events", r.Events)
	s.Metrics.Evicted("certificates", r.Certificates)
	s.Metrics.SetEntries("vehicles", float64(s.Vehicles.Cardinality()))
	s.Metrics.SetEntries("events", float64(s.Events.Cardinality()))
	if s.Certificates != nil {
		s.Metrics.SetEntries("certificates", float64(s.Certificates.Len()))
	}
	return r
}
