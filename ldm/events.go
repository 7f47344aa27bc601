package ldm

import (
	"math"
	"sort"
	"sync"

	"github.com/theoremus-urban-solutions/sldm/utils"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// NearEventDistanceM is the radius within which a report with a new key is
// merged into an existing event of the same cause.
const NearEventDistanceM = 10.0

// EventEntry pairs an event with its key.
type EventEntry struct {
	Key   uint64          `json:"key"`
	Event v2x.EventRecord `json:"event"`
}

// EventEvictFunc is called for every event removed by an expiry sweep.
type EventEvictFunc func(key uint64)

// EventStore holds DENM events behind a single lock.
type EventStore struct {
	mu       sync.RWMutex
	events   map[uint64]v2x.EventRecord
	now      Clock
	notifier *Notifier
}

// EventStoreOption configures an EventStore.
type EventStoreOption func(*EventStore)

// WithEventClock replaces the wall clock used for expiry.
func WithEventClock(c Clock) EventStoreOption {
	return func(s *EventStore) { s.now = c }
}

// WithNotifier makes the store bump n after every change.
func WithNotifier(n *Notifier) EventStoreOption {
	return func(s *EventStore) { s.notifier = n }
}

// NewEventStore returns an empty store.
func NewEventStore(opts ...EventStoreOption) *EventStore {
	s := &EventStore{
		events: map[uint64]v2x.EventRecord{},
		now:    utils.NowMicros,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *EventStore) changed() {
	if s.notifier != nil {
		s.notifier.Bump()
	}
}

// Insert stores rec under key if the key is free. It never overwrites.
func (s *EventStore) Insert(rec v2x.EventRecord, key uint64) Result {
	s.mu.Lock()
	if _, ok := s.events[key]; ok {
		s.mu.Unlock()
		return ItemExists
	}
	if uint64(len(s.events)) == math.MaxUint64 {
		s.mu.Unlock()
		return MapFull
	}
	s.events[key] = rec
	s.mu.Unlock()
	s.changed()
	return OK
}

// LookupAndUpdate overwrites the event stored under key and returns Updated.
// When key is unknown, the closest event with the same cause within
// NearEventDistanceM of (lat, lon) has its insertion time and validity
// refreshed from newData, and its key is returned with NearEventUpdated.
// The matched event keeps its position. Otherwise ItemNotFound is returned.
func (s *EventStore) LookupAndUpdate(key uint64, lat, lon float64, cause v2x.CauseCode, newData v2x.EventRecord) (Result, uint64) {
	s.mu.Lock()
	if _, ok := s.events[key]; ok {
		s.events[key] = newData
		s.mu.Unlock()
		s.changed()
		return Updated, key
	}

	var (
		found   bool
		nearKey uint64
		minDist = math.MaxFloat64
	)
	for k, ev := range s.events {
		if ev.Cause != cause {
			continue
		}
		d := utils.HaversineM(lat, lon, ev.Lat, ev.Lon)
		if d <= NearEventDistanceM && d < minDist {
			found, nearKey, minDist = true, k, d
		}
	}
	if !found {
		s.mu.Unlock()
		return ItemNotFound, 0
	}
	ev := s.events[nearKey]
	ev.InsertTimestampUs = newData.InsertTimestampUs
	ev.ValidityDurationS = newData.ValidityDurationS
	s.events[nearKey] = ev
	s.mu.Unlock()
	s.changed()
	return NearEventUpdated, nearKey
}

// Lookup returns a copy of the event stored under key.
func (s *EventStore) Lookup(key uint64) (v2x.EventRecord, Result) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[key]
	if !ok {
		return v2x.EventRecord{}, ItemNotFound
	}
	return ev, OK
}

// Remove deletes the event stored under key.
func (s *EventStore) Remove(key uint64) Result {
	s.mu.Lock()
	if _, ok := s.events[key]; !ok {
		s.mu.Unlock()
		return ItemNotFound
	}
	delete(s.events, key)
	s.mu.Unlock()
	s.changed()
	return Removed
}

// DeleteExpired removes every event older than its own validity duration.
func (s *EventStore) DeleteExpired() int {
	return s.DeleteExpiredAndExecute(nil)
}

// DeleteExpiredAndExecute is DeleteExpired calling fn for each event before
// it is removed. fn runs with the store lock held and must not call back
// into the store.
func (s *EventStore) DeleteExpiredAndExecute(fn EventEvictFunc) int {
	now := s.now()
	removed := 0

	s.mu.Lock()
	for k, ev := range s.events {
		if now <= ev.InsertTimestampUs {
			continue
		}
		if now-ev.InsertTimestampUs <= uint64(ev.ValidityDurationS)*1_000_000 {
			continue
		}
		if fn != nil {
			fn(k)
		}
		delete(s.events, k)
		removed++
	}
	s.mu.Unlock()

	if removed > 0 {
		s.changed()
	}
	return removed
}

// All returns every stored event ordered by key.
func (s *EventStore) All() []EventEntry {
	s.mu.RLock()
	out := make([]EventEntry, 0, len(s.events))
	for k, ev := range s.events {
		out = append(out, EventEntry{Key: k, Event: ev})
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ExecuteOnAll calls fn with a copy of every event under the read lock. fn
// must not call back into the store.
func (s *EventStore) ExecuteOnAll(fn func(key uint64, ev v2x.EventRecord)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, ev := range s.events {
		fn(k, ev)
	}
}

// Clear removes every event.
func (s *EventStore) Clear() {
	s.mu.Lock()
	clear(s.events)
	s.mu.Unlock()
	s.changed()
}

// Cardinality returns the number of stored events.
func (s *EventStore) Cardinality() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
