package ingest

import (
	"fmt"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/metrics"
	"github.com/theoremus-urban-solutions/sldm/security"
	"github.com/theoremus-urban-solutions/sldm/tracking"
	"github.com/theoremus-urban-solutions/sldm/utils"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// Pipeline applies decoded messages to the stores.
type Pipeline struct {
	vehicles *ldm.VehicleStore
	events   *ldm.EventStore
	certs    *security.CertificateStore

	area     AreaFilter
	ageCheck bool
	detector Detector
	metrics  *metrics.Collector
	objects  *objectIDs
	now      func() uint64
	clientID string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAreaFilter drops messages outside a.
func WithAreaFilter(a AreaFilter) Option { return func(p *Pipeline) { p.area = a } }

// WithAgeCheck toggles the GeoNetworking timestamp check. It is on by default.
func WithAgeCheck(enabled bool) Option { return func(p *Pipeline) { p.ageCheck = enabled } }

// WithDetector installs a misbehaviour detector.
func WithDetector(d Detector) Option { return func(p *Pipeline) { p.detector = d } }

// WithMetrics records outcomes on c.
func WithMetrics(c *metrics.Collector) Option { return func(p *Pipeline) { p.metrics = c } }

// WithClock replaces the microsecond wall clock used to stamp records.
func WithClock(now func() uint64) Option { return func(p *Pipeline) { p.now = now } }

// WithClientID sets the identifier printed in log lines.
func WithClientID(id string) Option { return func(p *Pipeline) { p.clientID = id } }

// NewPipeline returns a pipeline writing to the given stores.
func NewPipeline(vehicles *ldm.VehicleStore, events *ldm.EventStore, certs *security.CertificateStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		vehicles: vehicles,
		events:   events,
		certs:    certs,
		ageCheck: true,
		detector: NopDetector{},
		objects:  newObjectIDs(),
		now:      utils.NowMicros,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Handle applies one message. A non-nil error means the message was dropped;
// the error wraps one of the package sentinels.
func (p *Pipeline) Handle(msg v2x.DecodedMessage) error {
	start := time.Now()
	defer func() { p.metrics.ObserveIngest(time.Since(start)) }()
	p.metrics.MessageReceived(msg.Type.String())

	err := p.handle(msg)
	if err != nil {
		p.metrics.MessageDropped(dropReason(err))
	}
	return err
}

func (p *Pipeline) handle(msg v2x.DecodedMessage) error {
	recvUs := p.now()
	p.recordCertificate(msg, recvUs)
	p.checkSecurity(msg)

	if code := p.detector.Check(msg); code != 0 {
		return fmt.Errorf("station %d code %#x: %w", msg.StationID, code, ErrMisbehaviour)
	}

	switch msg.Type {
	case v2x.MessageCAM, v2x.MessageVAM, v2x.MessageTransit:
		if msg.Vehicle == nil {
			return fmt.Errorf("%s without vehicle payload: %w", msg.Type, ErrDecode)
		}
		return p.storeVehicle(*msg.Vehicle, msg, recvUs)
	case v2x.MessageDENM:
		if msg.Event == nil {
			return fmt.Errorf("denm without event payload: %w", ErrDecode)
		}
		return p.handleEvent(*msg.Event, msg, recvUs)
	case v2x.MessageCPM:
		return p.handlePerceived(msg, recvUs)
	default:
		return fmt.Errorf("%s: %w", msg.Type, ErrUnsupportedMessage)
	}
}

func (p *Pipeline) recordCertificate(msg v2x.DecodedMessage, recvUs uint64) {
	if msg.CertDigest == "" || msg.Certificate == nil {
		return
	}
	rec := *msg.Certificate
	if rec.StationID == 0 {
		rec.StationID = msg.StationID
	}
	rec.MsgTimestampUs = recvUs
	p.certs.InsertOrAssign(msg.CertDigest, rec)
	p.metrics.SetEntries("certificates", float64(p.certs.Len()))
}

// checkSecurity only reports; the security layer has already decided
// whether the message may be processed.
func (p *Pipeline) checkSecurity(msg v2x.DecodedMessage) {
	switch msg.Verdict {
	case v2x.VerdictInvalidCertificate:
		log.Printf("[INGEST] client=%s %s from station %d carries an invalid certificate", p.clientID, msg.Type, msg.StationID)
		p.metrics.StoreResult("certificates", "invalid")
	case v2x.VerdictDigest:
		status := p.certs.IsValid(msg.CertDigest)
		if status != security.DigestOK {
			log.Printf("[INGEST] client=%s %s from station %d: digest %s %s", p.clientID, msg.Type, msg.StationID, msg.CertDigest, status)
		}
		p.metrics.StoreResult("certificates", status.String())
	}
}

// storeVehicle applies the area filter and the age check, stamps the
// record and writes it.
func (p *Pipeline) storeVehicle(rec v2x.VehicleRecord, msg v2x.DecodedMessage, recvUs uint64) error {
	if !p.area.IsInside(rec.Lat, rec.Lon) {
		return fmt.Errorf("station %d at %.7f:%.7f: %w", rec.StationID, rec.Lat, rec.Lon, ErrOutsideArea)
	}

	if msg.HasGNTimestamp {
		if p.ageCheck {
			if stored, res := p.vehicles.Lookup(rec.StationID); res == ldm.OK &&
				!tracking.IsFresher(msg.GNTimestamp, stored.Vehicle.GNTimestamp) {
				return fmt.Errorf("station %d rx=%d stored=%d: %w",
					rec.StationID, msg.GNTimestamp, stored.Vehicle.GNTimestamp, ErrStale)
			}
		}
		rec.GNTimestamp = msg.GNTimestamp
	}

	rec.TimestampUs = recvUs
	if rec.OnMsgTimestampUs == 0 {
		rec.OnMsgTimestampUs = recvUs
	}
	if rec.StationCertDigest == "" {
		rec.StationCertDigest = msg.CertDigest
	}

	res := p.vehicles.InsertOrUpdate(rec)
	p.metrics.StoreResult("vehicles", res.String())
	p.metrics.SetEntries("vehicles", float64(p.vehicles.Cardinality()))
	if res == ldm.MapFull {
		return fmt.Errorf("station %d: %w", rec.StationID, ErrStoreFull)
	}
	return nil
}

func (p *Pipeline) handleEvent(ev v2x.EventRecord, msg v2x.DecodedMessage, recvUs uint64) error {
	if !p.area.IsInside(ev.Lat, ev.Lon) {
		return fmt.Errorf("event from station %d at %.7f:%.7f: %w", ev.OriginatingStationID, ev.Lat, ev.Lon, ErrOutsideArea)
	}

	key := ldm.DeriveEventKey(ev.Lat, ev.Lon, ev.Elevation, ev.Cause)
	defer func() { p.metrics.SetEntries("events", float64(p.events.Cardinality())) }()

	if msg.Terminated {
		res := p.events.Remove(key)
		p.metrics.StoreResult("events", res.String())
		return nil
	}

	ev.InsertTimestampUs = recvUs
	if ev.ValidityDurationS == 0 {
		ev.ValidityDurationS = v2x.DefaultValidityDurationS
	}

	res, _ := p.events.LookupAndUpdate(key, ev.Lat, ev.Lon, ev.Cause, ev)
	if res == ldm.ItemNotFound {
		res = p.events.Insert(ev, key)
	}
	p.metrics.StoreResult("events", res.String())
	if res == ldm.MapFull {
		return fmt.Errorf("event %d: %w", key, ErrStoreFull)
	}
	return nil
}

// handlePerceived stores every object of a CPM under the identifier
// assigned to it. Objects failing the area or age check are skipped; the
// first such error is returned after the rest have been stored.
func (p *Pipeline) handlePerceived(msg v2x.DecodedMessage, recvUs uint64) error {
	var firstErr error
	for _, obj := range msg.Perceived {
		rec := obj.Record
		if !p.area.IsInside(rec.Lat, rec.Lon) {
			if firstErr == nil {
				firstErr = fmt.Errorf("object %d of station %d at %.7f:%.7f: %w",
					obj.ObjectID, msg.StationID, rec.Lat, rec.Lon, ErrOutsideArea)
			}
			continue
		}

		id, fresh := p.objects.resolve(p.vehicles, msg.StationID, obj.ObjectID)
		rec.StationID = id
		rec.Detected = true
		rec.PerceivedBy = v2x.Some(msg.StationID)

		if err := p.storeVehicle(rec, msg, recvUs); err != nil {
			// an id that never reached the store must not stay reserved
			if fresh {
				p.objects.release(msg.StationID, obj.ObjectID)
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Forget releases the perceived-object identifiers that map to stationID.
// It must not be called from a store eviction callback, since resolving an
// identifier reads the vehicle store.
func (p *Pipeline) Forget(stationID uint64) {
	p.objects.forget(stationID)
}

// ClientID returns the identifier set with WithClientID.
func (p *Pipeline) ClientID() string { return p.clientID }
