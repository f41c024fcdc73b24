package storage

import (
	"bytes"
	"encoding/json"

	"github.com/dreamware/graphd/pkg/graph"
)

// encodeRecord JSON-encodes v and zero-pads it to blockSize. Returns
// oversized if v doesn't fit in a single block.
func encodeRecord(v any, blockSize int, oversized error) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(data) > blockSize {
		return nil, oversized
	}
	padded := make([]byte, blockSize)
	copy(padded, data)
	return padded, nil
}

func encodeNode(n graph.Node, blockSize int) ([]byte, error) {
	return encodeRecord(n, blockSize, ErrOversizedNode)
}

func decodeNode(block []byte) (graph.Node, error) {
	var n graph.Node
	trimmed := bytes.TrimRight(block, "\x00")
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return graph.Node{}, err
	}
	return n, nil
}

func encodeEdge(e graph.Edge, blockSize int) ([]byte, error) {
	return encodeRecord(e, blockSize, ErrOversizedEdge)
}

func decodeEdge(block []byte) (graph.Edge, error) {
	var e graph.Edge
	trimmed := bytes.TrimRight(block, "\x00")
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return graph.Edge{}, err
	}
	return e, nil
}
