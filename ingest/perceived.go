package ingest

import (
	"sync"

	"github.com/theoremus-urban-solutions/sldm/ldm"
)

type objectKey struct {
	perceiver uint64
	objectID  uint64
}

// objectIDs assigns store identifiers to objects perceived by other
// stations. An object keeps the identifier it was first given for as long as
// it stays in the store.
type objectIDs struct {
	mu       sync.Mutex
	assigned map[objectKey]uint64
	byID     map[uint64][]objectKey
}

func newObjectIDs() *objectIDs {
	return &objectIDs{
		assigned: map[objectKey]uint64{},
		byID:     map[uint64][]objectKey{},
	}
}

// resolve returns the identifier for objectID as seen by perceiver. On first
// sight the object keeps its own id unless a stored vehicle or another
// mapping already uses it, in which case the lowest free id from 1 upwards
// is taken. fresh reports whether the mapping was created by this call.
func (o *objectIDs) resolve(vehicles *ldm.VehicleStore, perceiver, objectID uint64) (id uint64, fresh bool) {
	k := objectKey{perceiver: perceiver, objectID: objectID}

	o.mu.Lock()
	defer o.mu.Unlock()
	if id, ok := o.assigned[k]; ok {
		return id, false
	}

	id = objectID
	_, reserved := o.byID[objectID]
	if _, res := vehicles.Lookup(objectID); res == ldm.OK || reserved {
		id = lowestFreeID(vehicles.GetAllIDs(), o.byID)
	}
	o.assigned[k] = id
	o.byID[id] = append(o.byID[id], k)
	return id, true
}

// release drops the mapping of objectID as seen by perceiver. It undoes a
// fresh resolve whose record never reached the store.
func (o *objectIDs) release(perceiver, objectID uint64) {
	k := objectKey{perceiver: perceiver, objectID: objectID}

	o.mu.Lock()
	defer o.mu.Unlock()
	id, ok := o.assigned[k]
	if !ok {
		return
	}
	delete(o.assigned, k)
	keys := o.byID[id]
	for i, other := range keys {
		if other == k {
			keys = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(keys) == 0 {
		delete(o.byID, id)
	} else {
		o.byID[id] = keys
	}
}

// forget drops every mapping that resolves to id.
func (o *objectIDs) forget(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, k := range o.byID[id] {
		delete(o.assigned, k)
	}
	delete(o.byID, id)
}

func (o *objectIDs) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.assigned)
}

// lowestFreeID returns the smallest id from 1 upwards that is neither in
// stored, which must be ascending, nor a key of reserved.
func lowestFreeID(stored []uint64, reserved map[uint64][]objectKey) uint64 {
	next := uint64(1)
	i := 0
	for {
		for i < len(stored) && stored[i] < next {
			i++
		}
		if i < len(stored) && stored[i] == next {
			next++
			continue
		}
		if _, taken := reserved[next]; taken {
			next++
			continue
		}
		return next
	}
}
