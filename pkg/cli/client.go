package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// Relation mirrors the REST API's relations projection response.
type Relation struct {
	FromNodeID    uint64 `json:"from_node_id"`
	FromNodeLabel string `json:"from_node_label"`
	EdgeLabel     string `json:"edge_label"`
	ToNodeID      uint64 `json:"to_node_id"`
	ToNodeLabel   string `json:"to_node_label"`
}

// Client is a thin HTTP client for graphd's REST API, used by the shell.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient builds a Client against baseURL (e.g. "http://localhost:8080"),
// authenticating mutating requests with username/password.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// CreateGraph creates a new graph.
func (c *Client) CreateGraph(name string) error {
	return c.do(http.MethodPost, "/graphs", map[string]string{"name": name}, nil)
}

// ListGraphs returns every known graph's name.
func (c *Client) ListGraphs() ([]string, error) {
	var names []string
	err := c.do(http.MethodGet, "/graphs", nil, &names)
	return names, err
}

// AddNode creates a node with an explicit id.
func (c *Client) AddNode(graphName string, id uint64, label string, properties map[string]string) error {
	body := map[string]any{"node_id": id, "label": label, "properties": properties}
	return c.do(http.MethodPost, fmt.Sprintf("/graphs/%s/nodes", graphName), body, nil)
}

// AddEdge creates an edge with an explicit id.
func (c *Client) AddEdge(graphName string, id, from, to uint64, label string, properties map[string]string) error {
	body := map[string]any{"edge_id": id, "from": from, "to": to, "label": label, "properties": properties}
	return c.do(http.MethodPost, fmt.Sprintf("/graphs/%s/edges", graphName), body, nil)
}

// Adjacency fetches the graph's adjacency projection.
func (c *Client) Adjacency(graphName string) (map[string][]uint64, error) {
	var resp struct {
		AdjacencyList map[string][]uint64 `json:"adjacency_list"`
	}
	err := c.do(http.MethodGet, fmt.Sprintf("/graphs/%s/adjacency", graphName), nil, &resp)
	return resp.AdjacencyList, err
}

// Relations fetches the graph's flattened relations projection.
func (c *Client) Relations(graphName string) ([]Relation, error) {
	var relations []Relation
	err := c.do(http.MethodGet, fmt.Sprintf("/graphs/%s/relations", graphName), nil, &relations)
	return relations, err
}
