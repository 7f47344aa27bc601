package ingest

import "errors"

var (
	// ErrStale marks a report older than the stored one.
	ErrStale = errors.New("stale report")
	// ErrOutsideArea marks a report outside the coverage area.
	ErrOutsideArea = errors.New("outside coverage area")
	// ErrMisbehaviour marks a report rejected by the misbehaviour detector.
	ErrMisbehaviour = errors.New("misbehaviour detected")
	// ErrUnsupportedMessage marks a message type the pipeline does not store.
	ErrUnsupportedMessage = errors.New("unsupported message type")
	// ErrStoreFull marks an insert refused by a full store.
	ErrStoreFull = errors.New("store full")
	// ErrDecode marks a payload that could not be turned into a message.
	ErrDecode = errors.New("decode failed")
)

// dropReason maps a pipeline error to a metrics label.
func dropReason(err error) string {
	switch {
	case errors.Is(err, ErrStale):
		return "stale"
	case errors.Is(err, ErrOutsideArea):
		return "outside_area"
	case errors.Is(err, ErrMisbehaviour):
		return "misbehaviour"
	case errors.Is(err, ErrUnsupportedMessage):
		return "unsupported"
	case errors.Is(err, ErrStoreFull):
		return "store_full"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "other"
	}
}
