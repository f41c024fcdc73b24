// Package storage implements graphd's dual-tier storage engine: an
// in-memory graph map (MemoryStore, C4) fronting a per-graph on-disk file
// (DiskStore, C5), composed by Manager (C6). Memory writes apply
// synchronously; disk writes replay through a bounded async queue so API
// requests never block on disk I/O.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dreamware/graphd/pkg/graph"
)

// graphExtension is the suffix DiskStore uses for per-graph files, and the
// suffix ListGraphNames filters a storage directory listing by.
const graphExtension = ".gph"

// DiskStore is the on-disk half of the dual-tier engine: one fixed-block
// file per graph at <dir>/<name>.gph, opened fresh for every operation
// (spec.md §5 — no long-lived handles, so intra-graph access is naturally
// serialized by the caller issuing one operation at a time).
type DiskStore struct {
	dir       string
	blockSize int
}

// NewDiskStore creates the storage directory if needed and returns a store
// that reads and writes blockSize-byte node/edge slots.
func NewDiskStore(dir string, blockSize int) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, blockSize: blockSize}, nil
}

func (d *DiskStore) path(name string) string {
	return filepath.Join(d.dir, name+graphExtension)
}

func (d *DiskStore) open(name string) (*os.File, error) {
	f, err := os.OpenFile(d.path(name), os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrGraphNotFound
		}
		return nil, err
	}
	return f, nil
}

func readHeaderFile(f *os.File) (fileHeader, error) {
	buf := make([]byte, headerSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return fileHeader{}, err
	}
	return decodeHeader(buf)
}

func writeHeaderFile(f *os.File, h fileHeader) error {
	data, err := h.encode()
	if err != nil {
		return err
	}
	_, err = f.WriteAt(data, 0)
	return err
}

func readBlock(f *os.File, offset int64, blockSize int) ([]byte, error) {
	buf := make([]byte, blockSize)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, err
	}
	return buf, nil
}

// CreateGraph writes a fresh header at offset 0. Fails if the file already
// exists.
func (d *DiskStore) CreateGraph(name string) error {
	f, err := os.OpenFile(d.path(name), os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrGraphExists
		}
		return err
	}
	defer f.Close()
	return writeHeaderFile(f, newHeader(name))
}

// AppendNode writes n into the next free node slot, sliding the first edge
// block out of the way if the node region has grown flush against the edge
// region. The graph is left unmutated if n doesn't fit in one block.
func (d *DiskStore) AppendNode(name string, n graph.Node) error {
	f, err := d.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return err
	}

	encoded, err := encodeNode(n, d.blockSize)
	if err != nil {
		return err
	}

	offset := h.FirstNodePosition + int64(h.NodeCount)*int64(d.blockSize)
	if offset+int64(d.blockSize) > h.FirstEdgePosition {
		if h.EdgeCount > 0 {
			slot0, err := readBlock(f, h.FirstEdgePosition, d.blockSize)
			if err != nil {
				return err
			}
			tail := h.FirstEdgePosition + int64(h.EdgeCount)*int64(d.blockSize)
			if _, err := f.WriteAt(slot0, tail); err != nil {
				return err
			}
		}
		h.FirstEdgePosition += int64(d.blockSize)
	}

	if _, err := f.WriteAt(encoded, offset); err != nil {
		return err
	}

	h.NodeCount++
	if uint64(n.ID)+1 > h.NextNodeID {
		h.NextNodeID = uint64(n.ID) + 1
	}
	return writeHeaderFile(f, h)
}

// AppendEdge writes e into the next free edge slot, at the tail of the edge
// region. Never needs to slide anything — the edge region is always last.
func (d *DiskStore) AppendEdge(name string, e graph.Edge) error {
	f, err := d.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return err
	}

	encoded, err := encodeEdge(e, d.blockSize)
	if err != nil {
		return err
	}

	offset := h.FirstEdgePosition + int64(h.EdgeCount)*int64(d.blockSize)
	if _, err := f.WriteAt(encoded, offset); err != nil {
		return err
	}

	h.EdgeCount++
	if uint64(e.ID)+1 > h.NextEdgeID {
		h.NextEdgeID = uint64(e.ID) + 1
	}
	return writeHeaderFile(f, h)
}

// UpdateNode rewrites the slot whose stored ID matches n.ID in place.
// Returns ErrRecordNotFound if no live (non-tombstoned) slot matches.
func (d *DiskStore) UpdateNode(name string, n graph.Node) error {
	f, err := d.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return err
	}

	encoded, err := encodeNode(n, d.blockSize)
	if err != nil {
		return err
	}

	for i := 0; i < h.NodeCount; i++ {
		offset := h.FirstNodePosition + int64(i)*int64(d.blockSize)
		block, err := readBlock(f, offset, d.blockSize)
		if err != nil {
			return err
		}
		existing, err := decodeNode(block)
		if err != nil {
			return err
		}
		if existing.ID == n.ID && !h.isNodeDeleted(uint64(n.ID)) {
			_, err := f.WriteAt(encoded, offset)
			return err
		}
	}
	return ErrRecordNotFound
}

// UpdateEdge rewrites the slot whose stored ID matches e.ID in place.
func (d *DiskStore) UpdateEdge(name string, e graph.Edge) error {
	f, err := d.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return err
	}

	encoded, err := encodeEdge(e, d.blockSize)
	if err != nil {
		return err
	}

	for i := 0; i < h.EdgeCount; i++ {
		offset := h.FirstEdgePosition + int64(i)*int64(d.blockSize)
		block, err := readBlock(f, offset, d.blockSize)
		if err != nil {
			return err
		}
		existing, err := decodeEdge(block)
		if err != nil {
			return err
		}
		if existing.ID == e.ID && !h.isEdgeDeleted(uint64(e.ID)) {
			_, err := f.WriteAt(encoded, offset)
			return err
		}
	}
	return ErrRecordNotFound
}

// MarkNodeDeleted records id as tombstoned. Idempotent: applying it twice
// leaves the header's tombstone set unchanged. Space is not reclaimed.
func (d *DiskStore) MarkNodeDeleted(name string, id graph.NodeID) error {
	f, err := d.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return err
	}
	h.markNodeDeleted(uint64(id))
	return writeHeaderFile(f, h)
}

// MarkEdgeDeleted records id as tombstoned, idempotently.
func (d *DiskStore) MarkEdgeDeleted(name string, id graph.EdgeID) error {
	f, err := d.open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return err
	}
	h.markEdgeDeleted(uint64(id))
	return writeHeaderFile(f, h)
}

// GetGraph reads the full graph back from disk, skipping tombstoned
// records, and primes its ID allocator from the header so that newly
// generated IDs never collide with reloaded data. Returns (nil, false, nil)
// if the file doesn't exist.
func (d *DiskStore) GetGraph(name string) (*graph.Graph, bool, error) {
	f, err := d.open(name)
	if err != nil {
		if errors.Is(err, ErrGraphNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	h, err := readHeaderFile(f)
	if err != nil {
		return nil, false, err
	}

	g := &graph.Graph{
		Name:      h.Name,
		Nodes:     make(map[graph.NodeID]graph.Node),
		Edges:     make(map[graph.EdgeID]graph.Edge),
		Allocator: graph.RestoreIDAllocator(h.NextNodeID, h.NextEdgeID),
	}

	for i := 0; i < h.NodeCount; i++ {
		offset := h.FirstNodePosition + int64(i)*int64(d.blockSize)
		block, err := readBlock(f, offset, d.blockSize)
		if err != nil {
			return nil, false, err
		}
		n, err := decodeNode(block)
		if err != nil {
			return nil, false, err
		}
		if h.isNodeDeleted(uint64(n.ID)) {
			continue
		}
		g.Nodes[n.ID] = n
	}

	for i := 0; i < h.EdgeCount; i++ {
		offset := h.FirstEdgePosition + int64(i)*int64(d.blockSize)
		block, err := readBlock(f, offset, d.blockSize)
		if err != nil {
			return nil, false, err
		}
		e, err := decodeEdge(block)
		if err != nil {
			return nil, false, err
		}
		if h.isEdgeDeleted(uint64(e.ID)) {
			continue
		}
		g.Edges[e.ID] = e
	}

	return g, true, nil
}

// ListGraphNames lists every graph with a persisted file, derived from a
// directory listing of *.gph files.
func (d *DiskStore) ListGraphNames() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), graphExtension) {
			names = append(names, strings.TrimSuffix(entry.Name(), graphExtension))
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeleteGraph removes the graph's file. Not an error if it's already gone.
func (d *DiskStore) DeleteGraph(name string) error {
	err := os.Remove(d.path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
