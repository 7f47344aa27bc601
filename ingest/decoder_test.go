package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

func TestJSONDecoder_CAM(t *testing.T) {
	payload := `{
		"type": "cam",
		"hasGNTimestamp": true,
		"gnTimestamp": 123456,
		"stationID": 4242,
		"stationType": 5,
		"vehicle": {"lat": 45.0621, "lon": 7.6784, "speed": 12.5, "vehicleWidth": 1.9},
		"verdict": 1
	}`
	msg, err := JSONDecoder{}.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Type != v2x.MessageCAM || msg.GNTimestamp != 123456 || !msg.HasGNTimestamp {
		t.Errorf("unexpected header: %+v", msg)
	}
	v := msg.Vehicle
	if v == nil {
		t.Fatal("vehicle payload missing")
	}
	if v.StationID != 4242 || v.StationType != v2x.StationTypePassengerCar {
		t.Errorf("identity not taken from the envelope: %+v", v)
	}
	if v.Speed != 12.5 || v.HasHeading() || v.HasYawRate() {
		t.Errorf("expected speed set and other dynamics unavailable: %+v", v)
	}
	if w, err := v.VehicleWidth.Get(); err != nil || w != 1.9 {
		t.Errorf("expected width 1.9, got %f (%v)", w, err)
	}
	if v.VehicleLength.IsAvailable() {
		t.Error("missing length must stay unavailable")
	}
}

func TestJSONDecoder_DENMAndCPM(t *testing.T) {
	denm := `{"type":"denm","stationID":77,"event":{"cause":2,"lat":45.1,"lon":7.7,"validityDuration":30},"terminated":true}`
	msg, err := JSONDecoder{}.Decode([]byte(denm))
	if err != nil {
		t.Fatalf("denm: %v", err)
	}
	if msg.Event == nil || msg.Event.Cause != v2x.CauseAccident || msg.Event.OriginatingStationID != 77 || !msg.Terminated {
		t.Errorf("unexpected denm: %+v %+v", msg, msg.Event)
	}
	if msg.Vehicle != nil {
		t.Error("denm should carry no vehicle")
	}

	cpm := `{"type":"cpm","stationID":1,"perceived":[{"objectID":9,"record":{"lat":45.2,"lon":7.1,"heading":90}}]}`
	msg, err = JSONDecoder{}.Decode([]byte(cpm))
	if err != nil {
		t.Fatalf("cpm: %v", err)
	}
	if len(msg.Perceived) != 1 || msg.Perceived[0].ObjectID != 9 {
		t.Fatalf("unexpected perceived objects: %+v", msg.Perceived)
	}
	po := msg.Perceived[0].Record
	if po.Heading != 90 || po.HasSpeed() {
		t.Errorf("unexpected perceived record: %+v", po)
	}
	assert.Equal(t, v2x.StationTypeDetectedPassengerCar, po.StationType)

	typed := `{"type":"cpm","stationID":1,"perceived":[{"objectID":3,"record":{"lat":45.2,"lon":7.1,"stationType":110}}]}`
	msg, err = JSONDecoder{}.Decode([]byte(typed))
	assert.NoError(t, err)
	assert.Equal(t, v2x.StationTypeDetectedPedestrian, msg.Perceived[0].Record.StationType)
}

func TestJSONDecoder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "\x01\x02"},
		{"missing type", `{"stationID": 1}`},
		{"unknown type", `{"type": "ivim"}`},
		{"bad vehicle", `{"type": "cam", "vehicle": {"lat": "north"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSONDecoder{}.Decode([]byte(tt.payload))
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}
