package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/theoremus-urban-solutions/sldm/ldm"
	"github.com/theoremus-urban-solutions/sldm/metrics"
	"github.com/theoremus-urban-solutions/sldm/security"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

type fixture struct {
	vehicles *ldm.VehicleStore
	events   *ldm.EventStore
	certs    *security.CertificateStore
	notifier *ldm.Notifier
	server   *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	notifier := ldm.NewNotifier()
	f := &fixture{
		vehicles: ldm.NewVehicleStore(),
		events:   ldm.NewEventStore(ldm.WithNotifier(notifier)),
		certs:    security.NewCertificateStore(security.WithClock(func() uint64 { return 0 }, func() uint64 { return 1_700_000_000 })),
		notifier: notifier,
	}
	reg := prometheus.NewRegistry()
	f.server = NewServer(0, f.vehicles, f.events, f.certs,
		WithNotifier(notifier),
		WithMetrics(metrics.NewCollector(reg), reg),
		WithClientID("test-client"),
	)
	return f
}

func (f *fixture) addVehicle(t *testing.T, id uint64, lat, lon float64) {
	t.Helper()
	rec := v2x.NewVehicleRecord(id, v2x.StationTypePassengerCar)
	rec.Lat, rec.Lon = lat, lon
	if res := f.vehicles.InsertOrUpdate(rec); res != ldm.OK {
		t.Fatalf("insert vehicle %d: %s", id, res)
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, 1, 45.0621, 7.6784)
	f.vehicles.SetCenter(45.0621, 7.6784)

	rec := get(t, f.server.Handler(), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Vehicles != 1 || body.Events != 0 {
		t.Errorf("unexpected health body: %+v", body)
	}
	if body.CenterLat != 45.0621 || body.ClientID != "test-client" {
		t.Errorf("center or client id missing: %+v", body)
	}
	t.Logf("✓ health reports %d vehicles", body.Vehicles)
}

func TestVehicles(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, 1, 45.0621, 7.6784)
	f.addVehicle(t, 2, 45.0622, 7.6785) // ~14 m away
	f.addVehicle(t, 3, 45.4642, 9.1900) // Milan

	tests := []struct {
		name   string
		target string
		code   int
		count  int
	}{
		{"all", "/api/vehicles", http.StatusOK, 3},
		{"around point", "/api/vehicles?lat=45.0621&lon=7.6784&radius=100", http.StatusOK, 2},
		{"around station", "/api/vehicles?around=3&radius=100", http.StatusOK, 1},
		{"unknown station", "/api/vehicles?around=42&radius=100", http.StatusNotFound, 0},
		{"missing radius", "/api/vehicles?lat=45&lon=7", http.StatusBadRequest, 0},
		{"bad latitude", "/api/vehicles?lat=95&lon=7&radius=10", http.StatusBadRequest, 0},
		{"negative radius", "/api/vehicles?around=1&radius=-1", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, f.server.Handler(), tt.target)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var body vehiclesResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Count != tt.count || len(body.Vehicles) != tt.count {
				t.Errorf("expected %d vehicles, got %d", tt.count, body.Count)
			}
		})
	}
}

func TestVehicleByID(t *testing.T) {
	f := newFixture(t)
	f.addVehicle(t, 70000, 45.0621, 7.6784)

	rec := get(t, f.server.Handler(), "/api/vehicles/70000")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var entry struct {
		Vehicle struct {
			StationID uint64  `json:"stationID"`
			Lat       float64 `json:"lat"`
		} `json:"vehicle"`
		PathHistory []json.RawMessage `json:"pathHistory"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Vehicle.StationID != 70000 || entry.Vehicle.Lat != 45.0621 {
		t.Errorf("unexpected vehicle: %+v", entry.Vehicle)
	}
	if len(entry.PathHistory) != 1 {
		t.Errorf("expected one path point, got %d", len(entry.PathHistory))
	}

	if rec := get(t, f.server.Handler(), "/api/vehicles/9"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown station, got %d", rec.Code)
	}
	if rec := get(t, f.server.Handler(), "/api/vehicles/abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	ev := v2x.EventRecord{OriginatingStationID: 5, Cause: v2x.CauseRoadworks, Lat: 45.0621, Lon: 7.6784, ValidityDurationS: 10}
	key := ldm.DeriveEventKey(ev.Lat, ev.Lon, ev.Elevation, ev.Cause)
	f.events.Insert(ev, key)

	rec := get(t, f.server.Handler(), "/api/events")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Version uint64 `json:"version"`
		Count   int    `json:"count"`
		Events  []struct {
			Key uint64 `json:"key"`
		} `json:"events"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Events[0].Key != key {
		t.Errorf("unexpected events body: %+v", body)
	}
	if body.Version != f.notifier.Version() || body.Version == 0 {
		t.Errorf("expected version %d, got %d", f.notifier.Version(), body.Version)
	}
}

func TestCertificate(t *testing.T) {
	f := newFixture(t)
	f.certs.InsertOrAssign("valid", v2x.CertificateRecord{StationID: 1, StartS: 1_600_000_000, EndS: 1_800_000_000})
	f.certs.InsertOrAssign("old", v2x.CertificateRecord{StationID: 2, StartS: 1_500_000_000, EndS: 1_600_000_000})

	tests := []struct {
		digest string
		code   int
		status string
	}{
		{"valid", http.StatusOK, "ok"},
		{"old", http.StatusOK, "expired"},
		{"missing", http.StatusNotFound, "notFound"},
	}
	for _, tt := range tests {
		t.Run(tt.digest, func(t *testing.T) {
			rec := get(t, f.server.Handler(), "/api/certificates/"+tt.digest)
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var body certificateResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.status {
				t.Errorf("expected status %q, got %q", tt.status, body.Status)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.server.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sldm_websocket_clients") {
		t.Errorf("metrics output misses websocket gauge:\n%s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/api/vehicles", nil)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}
