package tracking

// WrapThreshold bounds the forward and backward jump accepted between two
// GeoNetworking timestamps, in the units of that field (milliseconds).
const WrapThreshold = 300000

// IsFresher reports whether a sample carrying received should replace one
// carrying stored. Both values are 32-bit GeoNetworking timestamps that wrap
// modulo 2^32: a huge negative gap is a wrap and is accepted, a huge positive
// gap is a replay from before the wrap and is rejected, and any small
// backward step is stale.
func IsFresher(received, stored uint64) bool {
	gap := int64(received) - int64(stored)
	stale := (received > stored && gap > WrapThreshold) ||
		(received < stored && gap > -WrapThreshold)
	return !stale
}
