package graph_test

import (
	"fmt"

	"github.com/matzehuels/nodelight/pkg/graph"
)

func ExampleLoad() {
	// Triangle with a duplicate edge and a self-loop
	g, err := graph.Load([]graph.Edge{
		{From: "1", To: "2"},
		{From: "2", To: "3"},
		{From: "3", To: "1"},
		{From: "2", To: "1"},
		{From: "3", To: "3"},
	}, nil, nil)
	if err != nil {
		panic(err)
	}

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Printf("Discarded: %+v\n", g.Discarded())
	// Output:
	// Nodes: 3
	// Edges: 3
	// Discarded: {SelfLoops:1 Duplicates:1}
}

func ExampleGraph_Neighbors() {
	g, _ := graph.Load([]graph.Edge{
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "D", To: "E"},
	}, nil, map[string]string{"A": "Alpha"})

	nbrs, _ := g.Neighbors("A")
	node, _ := g.Node("A")
	fmt.Println(node.DisplayLabel(), nbrs)
	// Output:
	// Alpha [B C]
}
