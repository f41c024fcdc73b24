package graph

import "sync/atomic"

// IDAllocator hands out strictly increasing node and edge IDs for a single
// graph. It never reuses an ID, even once the node or edge it named has
// been deleted. Generation is lock-free (atomic fetch-and-add).
type IDAllocator struct {
	nextNodeID atomic.Uint64
	nextEdgeID atomic.Uint64
}

// NewIDAllocator returns an allocator starting both counters at 1.
func NewIDAllocator() *IDAllocator {
	a := &IDAllocator{}
	a.nextNodeID.Store(1)
	a.nextEdgeID.Store(1)
	return a
}

// RestoreIDAllocator reconstructs an allocator from persisted header values,
// so that IDs generated after a reload never collide with reloaded data.
func RestoreIDAllocator(nextNodeID, nextEdgeID uint64) *IDAllocator {
	a := &IDAllocator{}
	if nextNodeID == 0 {
		nextNodeID = 1
	}
	if nextEdgeID == 0 {
		nextEdgeID = 1
	}
	a.nextNodeID.Store(nextNodeID)
	a.nextEdgeID.Store(nextEdgeID)
	return a
}

// GenerateNodeID returns the next unused node ID.
func (a *IDAllocator) GenerateNodeID() NodeID {
	return NodeID(a.nextNodeID.Add(1) - 1)
}

// GenerateEdgeID returns the next unused edge ID.
func (a *IDAllocator) GenerateEdgeID() EdgeID {
	return EdgeID(a.nextEdgeID.Add(1) - 1)
}

// NextNodeID reports the next ID that would be generated, without
// consuming it. Used when persisting the header.
func (a *IDAllocator) NextNodeID() uint64 { return a.nextNodeID.Load() }

// NextEdgeID reports the next ID that would be generated, without
// consuming it.
func (a *IDAllocator) NextEdgeID() uint64 { return a.nextEdgeID.Load() }

// ObserveNodeID advances the node counter so that it strictly exceeds id,
// if it doesn't already. Used when reloading nodes with caller-supplied IDs.
func (a *IDAllocator) ObserveNodeID(id NodeID) {
	for {
		cur := a.nextNodeID.Load()
		if uint64(id) < cur {
			return
		}
		if a.nextNodeID.CompareAndSwap(cur, uint64(id)+1) {
			return
		}
	}
}

// ObserveEdgeID advances the edge counter so that it strictly exceeds id,
// if it doesn't already.
func (a *IDAllocator) ObserveEdgeID(id EdgeID) {
	for {
		cur := a.nextEdgeID.Load()
		if uint64(id) < cur {
			return
		}
		if a.nextEdgeID.CompareAndSwap(cur, uint64(id)+1) {
			return
		}
	}
}

// Clone returns an independent allocator with the same counter values.
func (a *IDAllocator) Clone() *IDAllocator {
	return RestoreIDAllocator(a.nextNodeID.Load(), a.nextEdgeID.Load())
}
