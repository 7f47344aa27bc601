package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// Decoder turns a transport payload into a decoded message.
type Decoder interface {
	Decode(payload []byte) (v2x.DecodedMessage, error)
}

// JSONDecoder reads the JSON envelopes published by the external ASN.1
// decoder. Vehicle fields absent from the payload keep their unavailable
// sentinels.
type JSONDecoder struct{}

type jsonEnvelope struct {
	v2x.DecodedMessage
	Vehicle   json.RawMessage `json:"vehicle"`
	Perceived []struct {
		ObjectID uint64          `json:"objectID"`
		Record   json.RawMessage `json:"record"`
	} `json:"perceived"`
}

func (JSONDecoder) Decode(payload []byte) (v2x.DecodedMessage, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return v2x.DecodedMessage{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	msg := env.DecodedMessage
	if msg.Type == v2x.MessageUnknown {
		return v2x.DecodedMessage{}, fmt.Errorf("%w: missing or unknown message type", ErrDecode)
	}

	if len(env.Vehicle) > 0 && string(env.Vehicle) != "null" {
		rec, err := decodeVehicle(env.Vehicle, msg.StationType)
		if err != nil {
			return v2x.DecodedMessage{}, err
		}
		// the envelope station id is authoritative for self-reported records
		if rec.StationID == 0 {
			rec.StationID = msg.StationID
		}
		msg.Vehicle = &rec
	}
	for _, po := range env.Perceived {
		rec, err := decodeVehicle(po.Record, v2x.StationTypeDetectedPassengerCar)
		if err != nil {
			return v2x.DecodedMessage{}, err
		}
		msg.Perceived = append(msg.Perceived, v2x.PerceivedObject{ObjectID: po.ObjectID, Record: rec})
	}
	if msg.Event != nil && msg.Event.OriginatingStationID == 0 {
		msg.Event.OriginatingStationID = msg.StationID
	}
	return msg, nil
}

func decodeVehicle(raw json.RawMessage, st v2x.StationType) (v2x.VehicleRecord, error) {
	rec := v2x.NewVehicleRecord(0, st)
	if err := json.Unmarshal(raw, &rec); err != nil {
		return v2x.VehicleRecord{}, fmt.Errorf("%w: vehicle: %v", ErrDecode, err)
	}
	return rec, nil
}
