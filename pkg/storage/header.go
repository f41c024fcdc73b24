package storage

import (
	"bytes"
	"encoding/json"
)

// headerSize is the fixed, non-configurable size of the header region at
// offset 0 of every .gph file (spec.md §4.5).
const headerSize = 1024

// fileHeader is the persisted header of a single graph's .gph file. It is
// JSON-encoded and zero-padded out to headerSize bytes. Unlike node/edge
// blocks, the header's size never varies with the configured block size.
type fileHeader struct {
	Name              string   `json:"name"`
	NextNodeID        uint64   `json:"next_node_id"`
	NextEdgeID        uint64   `json:"next_edge_id"`
	NodeCount         int      `json:"node_count"`
	EdgeCount         int      `json:"edge_count"`
	FirstNodePosition int64    `json:"first_node_position"`
	FirstEdgePosition int64    `json:"first_edge_position"`
	DeletedNodes      []uint64 `json:"deleted_nodes"`
	DeletedEdges      []uint64 `json:"deleted_edges"`
}

// newHeader builds the header for a freshly created graph file, with the
// node region starting immediately after the header and an empty edge
// region directly after it.
func newHeader(name string) fileHeader {
	return fileHeader{
		Name:              name,
		NextNodeID:        1,
		NextEdgeID:        1,
		FirstNodePosition: headerSize,
		FirstEdgePosition: headerSize,
	}
}

func (h fileHeader) encode() ([]byte, error) {
	data, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	if len(data) > headerSize {
		return nil, ErrHeaderOverflow
	}
	padded := make([]byte, headerSize)
	copy(padded, data)
	return padded, nil
}

func decodeHeader(block []byte) (fileHeader, error) {
	var h fileHeader
	trimmed := bytes.TrimRight(block, "\x00")
	if err := json.Unmarshal(trimmed, &h); err != nil {
		return fileHeader{}, err
	}
	return h, nil
}

func (h fileHeader) isNodeDeleted(id uint64) bool {
	for _, d := range h.DeletedNodes {
		if d == id {
			return true
		}
	}
	return false
}

func (h fileHeader) isEdgeDeleted(id uint64) bool {
	for _, d := range h.DeletedEdges {
		if d == id {
			return true
		}
	}
	return false
}

// markNodeDeleted appends id to DeletedNodes if not already present.
// Idempotent: calling it twice leaves the set unchanged.
func (h *fileHeader) markNodeDeleted(id uint64) {
	if !h.isNodeDeleted(id) {
		h.DeletedNodes = append(h.DeletedNodes, id)
	}
}

// markEdgeDeleted appends id to DeletedEdges if not already present.
func (h *fileHeader) markEdgeDeleted(id uint64) {
	if !h.isEdgeDeleted(id) {
		h.DeletedEdges = append(h.DeletedEdges, id)
	}
}
