package ldm

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/theoremus-urban-solutions/sldm/tracking"
	"github.com/theoremus-urban-solutions/sldm/utils"
	"github.com/theoremus-urban-solutions/sldm/v2x"
)

// VehicleEntry is a snapshot of one stored vehicle and its path history.
type VehicleEntry struct {
	Vehicle     v2x.VehicleRecord    `json:"vehicle"`
	PathHistory []tracking.PathPoint `json:"pathHistory"`
}

// EvictFunc is called for every vehicle removed by an expiry sweep.
type EvictFunc func(stationID uint64)

type vehicleSlot struct {
	record  v2x.VehicleRecord
	history *tracking.PathHistory
}

type vehicleShard struct {
	mu    sync.RWMutex
	slots map[uint16]*vehicleSlot
}

// VehicleStore is the sharded map of vehicles. The outer lock guards the set
// of shards and is always taken before a shard lock; at most one shard lock
// is held at a time.
type VehicleStore struct {
	mu     sync.RWMutex
	shards map[uint64]*vehicleShard

	card          atomic.Uint64
	historyLength int
	now           Clock

	centerMu  sync.RWMutex
	centerLat float64
	centerLon float64
}

// VehicleStoreOption configures a VehicleStore.
type VehicleStoreOption func(*VehicleStore)

// WithVehicleClock replaces the wall clock used for expiry.
func WithVehicleClock(c Clock) VehicleStoreOption {
	return func(s *VehicleStore) { s.now = c }
}

// WithPathHistoryLength sets the number of points kept per vehicle.
func WithPathHistoryLength(n int) VehicleStoreOption {
	return func(s *VehicleStore) { s.historyLength = n }
}

// NewVehicleStore returns an empty store.
func NewVehicleStore(opts ...VehicleStoreOption) *VehicleStore {
	s := &VehicleStore{
		shards:        map[uint64]*vehicleShard{},
		historyLength: tracking.DefaultPathHistoryLength,
		now:           utils.NowMicros,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func splitStationID(id uint64) (uint64, uint16) {
	return id >> 16, uint16(id & 0xFFFF)
}

func (s *VehicleStore) newSlot(rec v2x.VehicleRecord) *vehicleSlot {
	return &vehicleSlot{record: rec, history: tracking.NewPathHistory(s.historyLength)}
}

func pathPointOf(rec v2x.VehicleRecord) tracking.PathPoint {
	return tracking.PathPoint{
		Lat:         rec.Lat,
		Lon:         rec.Lon,
		Elevation:   rec.Elevation,
		Heading:     rec.Heading,
		TimestampUs: rec.TimestampUs,
	}
}

// InsertOrUpdate stores rec under rec.StationID. It returns OK for a new
// vehicle, Updated for a known one, and MapFull when the store cannot count
// another vehicle. A path point is appended in both success cases.
func (s *VehicleStore) InsertOrUpdate(rec v2x.VehicleRecord) Result {
	hi, lo := splitStationID(rec.StationID)

	s.mu.RLock()
	shard, ok := s.shards[hi]
	if ok {
		res := s.upsertInShard(shard, lo, rec)
		s.mu.RUnlock()
		return res
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// another writer may have created the shard in between
	shard, ok = s.shards[hi]
	if !ok {
		if s.card.Load() == math.MaxUint64 {
			return MapFull
		}
		shard = &vehicleShard{slots: map[uint16]*vehicleSlot{}}
		s.shards[hi] = shard
	}
	return s.upsertInShard(shard, lo, rec)
}

func (s *VehicleStore) upsertInShard(shard *vehicleShard, lo uint16, rec v2x.VehicleRecord) Result {
	shard.mu.Lock()
	defer shard.mu.Unlock()

	slot, ok := shard.slots[lo]
	if ok {
		slot.record = rec
		slot.history.Append(pathPointOf(rec))
		return Updated
	}

	for {
		c := s.card.Load()
		if c == math.MaxUint64 {
			return MapFull
		}
		if s.card.CompareAndSwap(c, c+1) {
			break
		}
	}
	slot = s.newSlot(rec)
	slot.history.Append(pathPointOf(rec))
	shard.slots[lo] = slot
	return OK
}

// Lookup returns a snapshot of the vehicle, or ItemNotFound.
func (s *VehicleStore) Lookup(stationID uint64) (VehicleEntry, Result) {
	hi, lo := splitStationID(stationID)

	s.mu.RLock()
	defer s.mu.RUnlock()
	shard, ok := s.shards[hi]
	if !ok {
		return VehicleEntry{}, ItemNotFound
	}
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	slot, ok := shard.slots[lo]
	if !ok {
		return VehicleEntry{}, ItemNotFound
	}
	return slot.snapshot(), OK
}

func (v *vehicleSlot) snapshot() VehicleEntry {
	return VehicleEntry{Vehicle: v.record, PathHistory: v.history.Points()}
}

// Remove deletes a vehicle and its path history.
func (s *VehicleStore) Remove(stationID uint64) Result {
	hi, lo := splitStationID(stationID)

	s.mu.RLock()
	defer s.mu.RUnlock()
	shard, ok := s.shards[hi]
	if !ok {
		return ItemNotFound
	}
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if _, ok := shard.slots[lo]; !ok {
		return ItemNotFound
	}
	delete(shard.slots, lo)
	s.card.Add(^uint64(0))
	return OK
}

// RangeSelect returns every vehicle within radiusM meters of (lat, lon).
// An empty result means nothing is in range.
func (s *VehicleStore) RangeSelect(radiusM, lat, lon float64) []VehicleEntry {
	var out []VehicleEntry
	s.forEachShard(func(shard *vehicleShard) {
		shard.mu.RLock()
		for _, slot := range shard.slots {
			if utils.HaversineM(lat, lon, slot.record.Lat, slot.record.Lon) <= radiusM {
				out = append(out, slot.snapshot())
			}
		}
		shard.mu.RUnlock()
	})
	return out
}

// RangeSelectAround returns every vehicle within radiusM meters of the
// given station, including the station itself.
func (s *VehicleStore) RangeSelectAround(radiusM float64, stationID uint64) ([]VehicleEntry, Result) {
	center, res := s.Lookup(stationID)
	if res != OK {
		return nil, res
	}
	return s.RangeSelect(radiusM, center.Vehicle.Lat, center.Vehicle.Lon), OK
}

// DeleteOlderThan removes every vehicle whose TimestampUs is more than age
// in the past. It returns the number of removed vehicles.
func (s *VehicleStore) DeleteOlderThan(age time.Duration) int {
	return s.DeleteOlderThanAndExecute(age, nil)
}

// DeleteOlderThanAndExecute is DeleteOlderThan calling fn for each vehicle
// before it is removed. fn runs with the shard lock held and must not call
// back into the store.
func (s *VehicleStore) DeleteOlderThanAndExecute(age time.Duration, fn EvictFunc) int {
	now := s.now()
	maxAge := uint64(age.Microseconds())
	removed := 0

	s.forEachShard(func(shard *vehicleShard) {
		shard.mu.Lock()
		for lo, slot := range shard.slots {
			ts := slot.record.TimestampUs
			if now <= ts || now-ts <= maxAge {
				continue
			}
			if fn != nil {
				fn(slot.record.StationID)
			}
			delete(shard.slots, lo)
			s.card.Add(^uint64(0))
			removed++
		}
		shard.mu.Unlock()
	})
	return removed
}

// GetAllIDs returns every stored station identifier in ascending order.
func (s *VehicleStore) GetAllIDs() []uint64 {
	var ids []uint64
	s.forEachShard(func(shard *vehicleShard) {
		shard.mu.RLock()
		for _, slot := range shard.slots {
			ids = append(ids, slot.record.StationID)
		}
		shard.mu.RUnlock()
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ExecuteOnAll calls fn with a copy of every stored vehicle. fn runs with the
// outer and a shard read lock held and must not call back into the store: a
// nested read lock can block behind a writer waiting to create a shard.
func (s *VehicleStore) ExecuteOnAll(fn func(VehicleEntry)) {
	s.forEachShard(func(shard *vehicleShard) {
		shard.mu.RLock()
		for _, slot := range shard.slots {
			fn(slot.snapshot())
		}
		shard.mu.RUnlock()
	})
}

// All returns a copy of every stored vehicle.
func (s *VehicleStore) All() []VehicleEntry {
	out := make([]VehicleEntry, 0, s.Cardinality())
	s.ExecuteOnAll(func(e VehicleEntry) { out = append(out, e) })
	return out
}

// Clear empties the store. Callers must ensure no concurrent access.
func (s *VehicleStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hi, shard := range s.shards {
		shard.mu.Lock()
		for lo, slot := range shard.slots {
			slot.history.Clear()
			delete(shard.slots, lo)
		}
		shard.mu.Unlock()
		delete(s.shards, hi)
	}
	s.card.Store(0)
}

// Cardinality returns the number of stored vehicles.
func (s *VehicleStore) Cardinality() uint64 { return s.card.Load() }

// SetCenter records the position of the roadside unit.
func (s *VehicleStore) SetCenter(lat, lon float64) {
	s.centerMu.Lock()
	s.centerLat, s.centerLon = lat, lon
	s.centerMu.Unlock()
}

// Center returns the position set with SetCenter.
func (s *VehicleStore) Center() (float64, float64) {
	s.centerMu.RLock()
	defer s.centerMu.RUnlock()
	return s.centerLat, s.centerLon
}

// forEachShard holds the outer read lock for the whole walk.
func (s *VehicleStore) forEachShard(fn func(*vehicleShard)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, shard := range s.shards {
		fn(shard)
	}
}
