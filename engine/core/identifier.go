package core

import (
	"fmt"
	"sync"
)

// InvalidID marks an unassigned runtime identifier.
const InvalidID uint32 = 0xFFFFFFFF

var ownersMutex sync.Mutex
var owners []interface{}

// IdentifierAcquireNewID hands out a unique runtime id for the given owner.
// Ids are reused after release. Used for shader/material/geometry identity
// in draw call sorting.
func IdentifierAcquireNewID(owner interface{}) uint32 {
	ownersMutex.Lock()
	defer ownersMutex.Unlock()
	if len(owners) == 0 {
		owners = make([]interface{}, 0, 100)
	}
	for i := uint32(0); i < uint32(len(owners)); i++ {
		// Existing free spot. Take it.
		if owners[i] == nil {
			owners[i] = owner
			return i
		}
	}
	// If here, no existing free slots. Need a new id, so push one.
	owners = append(owners, owner)
	return uint32(len(owners)) - 1
}

// IdentifierReleaseID frees a previously acquired id for reuse.
func IdentifierReleaseID(id uint32) error {
	ownersMutex.Lock()
	defer ownersMutex.Unlock()
	if len(owners) == 0 {
		return fmt.Errorf("IdentifierReleaseID called before any id was acquired. Nothing was done")
	}
	if id >= uint32(len(owners)) {
		return fmt.Errorf("IdentifierReleaseID: id '%d' out of range (max=%d). Nothing was done", id, len(owners))
	}
	// Just zero out the entry, making it available for use.
	owners[id] = nil
	return nil
}
