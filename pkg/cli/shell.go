// Package cli implements graphd's line-oriented REPL shell (C11): an
// external client that tokenizes one line at a time and drives the HTTP
// API. Grounded on original_source/Cli/src/lib/api/cli.rs.
package cli

import (
	"bufio"
	"fmt"
	"io"
)

// Shell runs the REPL loop over r (input) and w (output), driving client.
// Unknown commands print an error and continue; the loop ends on "exit"
// or when r reaches end of input.
func Shell(r io.Reader, w io.Writer, client *Client) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			return
		}
		cmd := parseCommand(scanner.Text())
		if cmd.kind == kindExit {
			fmt.Fprintln(w, "Exiting...")
			return
		}
		dispatch(w, client, cmd)
	}
}

func dispatch(w io.Writer, client *Client, cmd command) {
	switch cmd.kind {
	case kindCreateGraph:
		if err := client.CreateGraph(cmd.name); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "Graph '%s' created.\n", cmd.name)

	case kindListGraphs:
		names, err := client.ListGraphs()
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintln(w, "Graphs:")
		for _, name := range names {
			fmt.Fprintf(w, "- %s\n", name)
		}

	case kindAddNode:
		if err := client.AddNode(cmd.graphName, cmd.nodeID, cmd.label, cmd.properties); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "Node #%d added to '%s'.\n", cmd.nodeID, cmd.graphName)

	case kindAddEdge:
		if err := client.AddEdge(cmd.graphName, cmd.edgeID, cmd.from, cmd.to, cmd.label, cmd.properties); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		fmt.Fprintf(w, "Edge #%d added to '%s'.\n", cmd.edgeID, cmd.graphName)

	case kindPrintAdjacency:
		adjacency, err := client.Adjacency(cmd.graphName)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		for id, neighbors := range adjacency {
			fmt.Fprintf(w, "[#%s] -> %v\n", id, neighbors)
		}

	case kindPrintRelations:
		relations, err := client.Relations(cmd.graphName)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			return
		}
		for _, rel := range relations {
			fmt.Fprintf(w, "[#%d]%s --[%s]-> [#%d]%s\n",
				rel.FromNodeID, rel.FromNodeLabel, rel.EdgeLabel, rel.ToNodeID, rel.ToNodeLabel)
		}

	default:
		fmt.Fprintln(w, "error: unknown command or incorrect arguments.")
	}
}
