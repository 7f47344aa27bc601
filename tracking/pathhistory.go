package tracking

// DefaultPathHistoryLength is the number of points kept per vehicle.
const DefaultPathHistoryLength = 40

// PathPoint is one past position of a vehicle.
type PathPoint struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Elevation   float64 `json:"elevation"`
	Heading     float64 `json:"heading"`
	TimestampUs uint64  `json:"timestampUs"`
}

// PathHistory is an append-only ring of the most recent positions.
type PathHistory struct {
	points []PathPoint
	next   int
	full   bool
}

// NewPathHistory allocates a history holding up to capacity points.
func NewPathHistory(capacity int) *PathHistory {
	if capacity <= 0 {
		capacity = DefaultPathHistoryLength
	}
	return &PathHistory{points: make([]PathPoint, capacity)}
}

// Append stores p, overwriting the oldest point once the ring is full.
func (h *PathHistory) Append(p PathPoint) {
	h.points[h.next] = p
	h.next++
	if h.next == len(h.points) {
		h.next = 0
		h.full = true
	}
}

// Len returns the number of stored points.
func (h *PathHistory) Len() int {
	if h.full {
		return len(h.points)
	}
	return h.next
}

// Cap returns the maximum number of stored points.
func (h *PathHistory) Cap() int { return len(h.points) }

// Points returns a copy of the stored points, oldest first.
func (h *PathHistory) Points() []PathPoint {
	out := make([]PathPoint, 0, h.Len())
	if h.full {
		out = append(out, h.points[h.next:]...)
	}
	return append(out, h.points[:h.next]...)
}

// Last returns the most recent point.
func (h *PathHistory) Last() (PathPoint, bool) {
	if h.Len() == 0 {
		return PathPoint{}, false
	}
	i := h.next - 1
	if i < 0 {
		i = len(h.points) - 1
	}
	return h.points[i], true
}

// Clear drops every point and keeps the allocated capacity.
func (h *PathHistory) Clear() {
	h.next = 0
	h.full = false
}
