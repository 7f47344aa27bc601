package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

func TestSweeper_SweepOnce(t *testing.T) {
	env := newTestEnv()
	s := &Sweeper{
		Vehicles:          env.vehicles,
		Events:            env.events,
		Certificates:      env.certs,
		Pipeline:          env.pipeline,
		Interval:          time.Second,
		VehicleMaxAge:     5 * time.Second,
		CertificateMaxAge: time.Minute,
	}

	cam := camMessage(1, 1, 45, 7)
	cam.CertDigest = "aa"
	cam.Certificate = &v2x.CertificateRecord{EndS: 1 << 40}
	_ = env.pipeline.Handle(cam)
	_ = env.pipeline.Handle(denmMessage(45, 7, v2x.CauseAccident, false))
	_ = env.pipeline.Handle(v2x.DecodedMessage{
		Type:      v2x.MessageCPM,
		StationID: 1,
		Perceived: []v2x.PerceivedObject{{ObjectID: 1, Record: v2x.NewVehicleRecord(0, v2x.StationTypeCyclist)}},
	})
	if env.pipeline.objects.len() != 1 {
		t.Fatalf("expected one perceived mapping, got %d", env.pipeline.objects.len())
	}

	if r := s.SweepOnce(); r.Vehicles+r.Events+r.Certificates != 0 || len(r.ExpiredEvents) != 0 {
		t.Fatalf("nothing should expire yet, got %+v", r)
	}

	env.nowUs += 11_000_000
	r := s.SweepOnce()
	if r.Vehicles != 2 || r.Events != 1 || r.Certificates != 0 {
		t.Fatalf("unexpected sweep result %+v", r)
	}
	key := ldm.DeriveEventKey(45, 7, 240, v2x.CauseAccident)
	if len(r.ExpiredEvents) != 1 || r.ExpiredEvents[0] != key {
		t.Errorf("expected expired event key %d, got %v", key, r.ExpiredEvents)
	}
	if env.pipeline.objects.len() != 0 {
		t.Error("perceived mapping should be forgotten with its vehicle")
	}

	env.nowUs += 60_000_000
	if r := s.SweepOnce(); r.Certificates != 1 {
		t.Errorf("expected the certificate to expire, got %+v", r)
	}
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	env := newTestEnv()
	s := &Sweeper{Vehicles: env.vehicles, Events: env.events, Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
