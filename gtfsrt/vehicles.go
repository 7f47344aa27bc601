package gtfsrt

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/cespare/xxhash/v2"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// stationIDSpan is the size of the identifier range handed to transit vehicles.
const stationIDSpan = 1 << 28

// Feed is a decoded VehiclePositions snapshot.
type Feed struct {
	// HeaderTimestamp is the feed creation time in seconds since epoch, 0 when absent.
	HeaderTimestamp uint64
	Vehicles        []v2x.VehicleRecord
}

// StationIDFor maps a feed vehicle key to a station identifier in
// [base, base+2^28).
func StationIDFor(base uint64, vehicleKey string) uint64 {
	return base + xxhash.Sum64String(vehicleKey)%stationIDSpan
}

// ParseVehiclePositions decodes a FeedMessage and converts every entity
// with a position into a vehicle record.
func ParseVehiclePositions(data []byte, stationIDBase uint64) (Feed, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &fm); err != nil {
		return Feed{}, fmt.Errorf("failed to decode vehicle positions: %w", err)
	}

	var feed Feed
	if fm.Header != nil && fm.Header.Timestamp != nil {
		feed.HeaderTimestamp = *fm.Header.Timestamp
	}
	for _, e := range fm.Entity {
		vp := e.GetVehicle()
		if vp == nil || vp.Position == nil {
			continue
		}
		key := vehicleKey(e, vp)
		if key == "" {
			continue
		}

		rec := v2x.NewVehicleRecord(StationIDFor(stationIDBase, key), v2x.StationTypeBus)
		rec.Lat = float64(vp.Position.GetLatitude())
		rec.Lon = float64(vp.Position.GetLongitude())
		if vp.Position.Bearing != nil {
			rec.Heading = float64(*vp.Position.Bearing)
		}
		if vp.Position.Speed != nil {
			rec.Speed = float64(*vp.Position.Speed)
		}
		if vp.Timestamp != nil {
			rec.OnMsgTimestampUs = *vp.Timestamp * 1_000_000
		}
		feed.Vehicles = append(feed.Vehicles, rec)
	}
	return feed, nil
}

// vehicleKey prefers the vehicle id, then its label, then the entity id.
func vehicleKey(e *gtfsrtpb.FeedEntity, vp *gtfsrtpb.VehiclePosition) string {
	if d := vp.Vehicle; d != nil {
		if d.GetId() != "" {
			return d.GetId()
		}
		if d.GetLabel() != "" {
			return d.GetLabel()
		}
	}
	return e.GetId()
}
