package ldm

// Result is the outcome of a store operation.
type Result int

const (
	OK Result = iota
	Updated
	NearEventUpdated
	Removed
	ItemNotFound
	ItemExists
	MapFull
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Updated:
		return "updated"
	case NearEventUpdated:
		return "nearEventUpdated"
	case Removed:
		return "removed"
	case ItemNotFound:
		return "itemNotFound"
	case ItemExists:
		return "itemExists"
	case MapFull:
		return "mapFull"
	default:
		return "unknown"
	}
}

// Clock returns the current wall-clock time in microseconds.
type Clock func() uint64
