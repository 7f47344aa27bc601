package ldm

import (
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// DeriveEventKey computes the identity of a DENM event from its truncated
// position and cause. Reports whose coordinates agree to 1e-6 degrees and
// whose elevation agrees to 1 cm share a key for the same cause.
func DeriveEventKey(lat, lon, elevation float64, cause v2x.CauseCode) uint64 {
	lat = math.Trunc(lat*1e6) / 1e6
	lon = math.Trunc(lon*1e6) / 1e6
	elevation = math.Trunc(elevation*1e2) / 1e2

	buf := make([]byte, 0, 48)
	buf = strconv.AppendFloat(buf, elevation, 'f', 2, 64)
	buf = strconv.AppendFloat(buf, lat, 'f', 6, 64)
	buf = strconv.AppendFloat(buf, lon, 'f', 6, 64)
	buf = strconv.AppendInt(buf, int64(cause), 10)
	return xxhash.Sum64(buf)
}
