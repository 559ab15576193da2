package datastructure

import (
	"sort"

	"github.com/aryo-w/streetflow/pkg"
)

// GraphNode. built and owned by the graph builder for the lifetime of
// one simulation request.
type GraphNode struct {
	ID  string
	Lat float64
	Lon float64
}

type GraphEdge struct {
	ID        int
	From      string
	To        string
	RoadID    int64
	Class     pkg.RoadClass
	LengthM   float64
	BaseTimeS float64
	SpeedMS   float64
	Weight    float64
	Forward   bool
	Lanes     int
}

// Movement is an (incoming edge, outgoing edge) pair sharing a node,
// classified by signed bearing delta. Used for visualization only.
type Movement struct {
	InEdge  int
	OutEdge int
	Turn    pkg.TurnType
}

// Graph is a directed weighted multigraph over road segments.
type Graph struct {
	nodes     map[string]*GraphNode
	edges     []*GraphEdge
	outEdges  map[string][]int
	inEdges   map[string][]int
	movements map[string][]Movement

	sortedNodeIDs []string
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]*GraphNode),
		edges:     make([]*GraphEdge, 0),
		outEdges:  make(map[string][]int),
		inEdges:   make(map[string][]int),
		movements: make(map[string][]Movement),
	}
}

func (g *Graph) AddNode(id string, lat, lon float64) *GraphNode {
	if node, ok := g.nodes[id]; ok {
		return node
	}
	node := &GraphNode{ID: id, Lat: lat, Lon: lon}
	g.nodes[id] = node
	g.sortedNodeIDs = nil
	return node
}

func (g *Graph) AddEdge(edge *GraphEdge) int {
	edge.ID = len(g.edges)
	g.edges = append(g.edges, edge)
	g.outEdges[edge.From] = append(g.outEdges[edge.From], edge.ID)
	g.inEdges[edge.To] = append(g.inEdges[edge.To], edge.ID)
	return edge.ID
}

func (g *Graph) Node(id string) (*GraphNode, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

func (g *Graph) Edge(id int) *GraphEdge {
	return g.edges[id]
}

func (g *Graph) Edges() []*GraphEdge {
	return g.edges
}

func (g *Graph) OutEdges(nodeID string) []int {
	return g.outEdges[nodeID]
}

func (g *Graph) InEdges(nodeID string) []int {
	return g.inEdges[nodeID]
}

func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// NodeIDs returns node ids in sorted order so that iteration over the
// graph is deterministic across runs.
func (g *Graph) NodeIDs() []string {
	if g.sortedNodeIDs == nil {
		g.sortedNodeIDs = make([]string, 0, len(g.nodes))
		for id := range g.nodes {
			g.sortedNodeIDs = append(g.sortedNodeIDs, id)
		}
		sort.Strings(g.sortedNodeIDs)
	}
	return g.sortedNodeIDs
}

func (g *Graph) SetMovements(nodeID string, movements []Movement) {
	g.movements[nodeID] = movements
}

func (g *Graph) Movements(nodeID string) []Movement {
	return g.movements[nodeID]
}
