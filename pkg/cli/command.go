package cli

// kind identifies which shell command a parsed line represents.
type kind int

const (
	kindUnknown kind = iota
	kindExit
	kindCreateGraph
	kindListGraphs
	kindAddNode
	kindAddEdge
	kindPrintAdjacency
	kindPrintRelations
)

// command is a fully parsed shell line, ready to dispatch against a
// Client. Only the fields relevant to Kind are populated.
type command struct {
	kind       kind
	graphName  string
	name       string
	nodeID     uint64
	edgeID     uint64
	from       uint64
	to         uint64
	label      string
	properties map[string]string
}

// parseCommand implements the exact grammar from the original shell:
//
//	exit
//	create graph <name>
//	list graphs
//	add node <graph> <id> <label> [k=v ...]
//	add edge <graph> <id> <from> <to> <label> [k=v ...]
//	print graph adjacency <graph>
//	print graph relations <graph>
//
// Any line that doesn't match yields kindUnknown.
func parseCommand(line string) command {
	args := tokenize(line)
	if len(args) == 0 {
		return command{kind: kindUnknown}
	}

	switch args[0] {
	case "exit":
		return command{kind: kindExit}

	case "create":
		if len(args) == 3 && args[1] == "graph" {
			return command{kind: kindCreateGraph, name: args[2]}
		}

	case "list":
		if len(args) == 2 && args[1] == "graphs" {
			return command{kind: kindListGraphs}
		}

	case "add":
		if len(args) >= 5 && args[1] == "node" {
			id, err := parseUint(args[3])
			if err != nil {
				return command{kind: kindUnknown}
			}
			return command{
				kind:       kindAddNode,
				graphName:  args[2],
				nodeID:     id,
				label:      args[4],
				properties: parseProperties(args[5:]),
			}
		}
		if len(args) >= 7 && args[1] == "edge" {
			edgeID, err1 := parseUint(args[3])
			from, err2 := parseUint(args[4])
			to, err3 := parseUint(args[5])
			if err1 != nil || err2 != nil || err3 != nil {
				return command{kind: kindUnknown}
			}
			return command{
				kind:       kindAddEdge,
				graphName:  args[2],
				edgeID:     edgeID,
				from:       from,
				to:         to,
				label:      args[6],
				properties: parseProperties(args[7:]),
			}
		}

	case "print":
		if len(args) == 4 && args[1] == "graph" {
			switch args[2] {
			case "adjacency":
				return command{kind: kindPrintAdjacency, graphName: args[3]}
			case "relations":
				return command{kind: kindPrintRelations, graphName: args[3]}
			}
		}
	}

	return command{kind: kindUnknown}
}
