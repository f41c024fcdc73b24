// Package seed implements the CSV bulk-loader (C12): populating a graph
// from two flat files, nodes.csv (id,label,properties) and edges.csv
// (id,label,from,to,properties), with properties encoded as "&"-joined
// "k=v" pairs. This format is independent of the server's persisted .gph
// binary layout — it exists purely as an import/export convenience.
//
// Grounded on original_source/Server/src/lib/storage/disk_storage.rs's
// CSV encoding (NODES_FILE/EDGES_FILE headers, add_node_to_file/
// add_edge_to_file's "&"/"=" property join, and get_properties's parser).
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dreamware/graphd/pkg/graph"
	"github.com/dreamware/graphd/pkg/service"
)

// EncodeProperties joins a property map into the "&"-separated "k=v" form
// used by both CSV columns.
func EncodeProperties(properties map[string]string) string {
	if len(properties) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(properties))
	for k, v := range properties {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, "&")
}

// DecodeProperties parses the "&"-separated "k=v" form back into a map.
// An empty string decodes to an empty, non-nil map.
func DecodeProperties(propsString string) map[string]string {
	properties := make(map[string]string)
	if propsString == "" {
		return properties
	}
	for _, pair := range strings.Split(propsString, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		properties[k] = v
	}
	return properties
}

// LoadNodes reads a nodes.csv stream (header row "id,label,properties")
// and adds each row to graphName via svc, preserving the file's explicit
// ids. Returns the count of nodes loaded.
func LoadNodes(svc *service.Service, graphName string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("seed: reading nodes header: %w", err)
	}
	if len(header) < 3 || header[0] != "id" || header[1] != "label" || header[2] != "properties" {
		return 0, fmt.Errorf("seed: nodes.csv header must be \"id,label,properties\"")
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("seed: reading node row %d: %w", count+1, err)
		}
		if len(row) < 2 {
			return count, fmt.Errorf("seed: node row %d has too few columns", count+1)
		}

		id, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return count, fmt.Errorf("seed: node row %d has invalid id %q: %w", count+1, row[0], err)
		}
		properties := map[string]string(nil)
		if len(row) > 2 {
			properties = DecodeProperties(row[2])
		}

		if _, err := svc.AddNode(graphName, graph.NodeID(id), row[1], properties); err != nil {
			return count, fmt.Errorf("seed: adding node %d: %w", id, err)
		}
		count++
	}
	return count, nil
}

// LoadEdges reads an edges.csv stream (header row
// "id,label,from,to,properties") and adds each row to graphName via svc.
// Nodes referenced by an edge must already exist — callers should load
// nodes.csv first. Returns the count of edges loaded.
func LoadEdges(svc *service.Service, graphName string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("seed: reading edges header: %w", err)
	}
	if len(header) < 4 || header[0] != "id" || header[1] != "label" || header[2] != "from" || header[3] != "to" {
		return 0, fmt.Errorf("seed: edges.csv header must be \"id,label,from,to,properties\"")
	}

	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("seed: reading edge row %d: %w", count+1, err)
		}
		if len(row) < 4 {
			return count, fmt.Errorf("seed: edge row %d has too few columns", count+1)
		}

		id, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return count, fmt.Errorf("seed: edge row %d has invalid id %q: %w", count+1, row[0], err)
		}
		from, err := strconv.ParseUint(row[2], 10, 64)
		if err != nil {
			return count, fmt.Errorf("seed: edge row %d has invalid from %q: %w", count+1, row[2], err)
		}
		to, err := strconv.ParseUint(row[3], 10, 64)
		if err != nil {
			return count, fmt.Errorf("seed: edge row %d has invalid to %q: %w", count+1, row[3], err)
		}
		properties := map[string]string(nil)
		if len(row) > 4 {
			properties = DecodeProperties(row[4])
		}

		if _, err := svc.AddEdge(graphName, graph.EdgeID(id), row[1], graph.NodeID(from), graph.NodeID(to), properties); err != nil {
			return count, fmt.Errorf("seed: adding edge %d: %w", id, err)
		}
		count++
	}
	return count, nil
}

// WriteNodes writes a nodes.csv stream (header plus one row per node) for
// a graph already held in memory, in the same format LoadNodes consumes.
func WriteNodes(w io.Writer, nodes []graph.Node) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "label", "properties"}); err != nil {
		return err
	}
	for _, n := range nodes {
		row := []string{strconv.FormatUint(uint64(n.ID), 10), n.Label, EncodeProperties(n.Properties)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteEdges writes an edges.csv stream (header plus one row per edge), in
// the same format LoadEdges consumes.
func WriteEdges(w io.Writer, edges []graph.Edge) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "label", "from", "to", "properties"}); err != nil {
		return err
	}
	for _, e := range edges {
		row := []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Label,
			strconv.FormatUint(uint64(e.From), 10),
			strconv.FormatUint(uint64(e.To), 10),
			EncodeProperties(e.Properties),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
