package routing

import (
	"github.com/aryo-w/streetflow/pkg"
	da "github.com/aryo-w/streetflow/pkg/datastructure"
)

// WeightFunc maps an edge to its current routing weight, letting the
// k-path search penalize already-used edges without mutating the graph.
type WeightFunc func(edge *da.GraphEdge) float64

type Router struct {
	graph *da.Graph
}

func NewRouter(graph *da.Graph) *Router {
	return &Router{graph: graph}
}

type nodeLabel struct {
	dist     float64
	prevEdge int
	heapNode *da.PriorityQueueNode[string]
	settled  bool
}

// ShortestPath runs Dijkstra from source to target over the directed
// edge-weight graph, stopping early once the target settles. Returns the
// path as an edge-id sequence.
func (r *Router) ShortestPath(source, target string, weightFn WeightFunc) ([]int, float64, bool) {
	if source == target {
		return nil, 0, false
	}
	if _, ok := r.graph.Node(source); !ok {
		return nil, 0, false
	}
	if _, ok := r.graph.Node(target); !ok {
		return nil, 0, false
	}

	labels := make(map[string]*nodeLabel, 64)
	pq := da.NewMinHeap[string]()

	sourceNode := da.NewPriorityQueueNode(0, source)
	labels[source] = &nodeLabel{dist: 0, prevEdge: -1, heapNode: sourceNode}
	pq.Insert(sourceNode)

	for !pq.IsEmpty() {
		minNode, err := pq.ExtractMin()
		if err != nil {
			break
		}
		uID := minNode.GetItem()
		uLabel := labels[uID]
		if uLabel.settled {
			continue
		}
		uLabel.settled = true

		if uID == target {
			break
		}

		for _, edgeID := range r.graph.OutEdges(uID) {
			edge := r.graph.Edge(edgeID)
			edgeWeight := weightFn(edge)

			newDist := uLabel.dist + edgeWeight
			if newDist >= pkg.INF_WEIGHT {
				continue
			}

			vLabel, labelled := labels[edge.To]
			if labelled && newDist >= vLabel.dist {
				continue
			}

			if labelled {
				vLabel.dist = newDist
				vLabel.prevEdge = edgeID
				pq.DecreaseKey(vLabel.heapNode, newDist)
			} else {
				vhNode := da.NewPriorityQueueNode(newDist, edge.To)
				labels[edge.To] = &nodeLabel{dist: newDist, prevEdge: edgeID, heapNode: vhNode}
				pq.Insert(vhNode)
			}
		}
	}

	targetLabel, ok := labels[target]
	if !ok || !targetLabel.settled {
		return nil, 0, false
	}

	// walk parent edges back to source.
	path := make([]int, 0, 16)
	cur := target
	for cur != source {
		edgeID := labels[cur].prevEdge
		path = append(path, edgeID)
		cur = r.graph.Edge(edgeID).From
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, targetLabel.dist, true
}
