package routing

import (
	"strconv"
	"strings"

	"github.com/aryo-w/streetflow/pkg"
	da "github.com/aryo-w/streetflow/pkg/datastructure"
	"github.com/aryo-w/streetflow/pkg/util"
)

// KShortestPaths produces up to k distinct diversified paths between two
// nodes. After each accepted path, every edge on it gets a penalty
// counter; the next search sees weight*(1 + 0.35*penalty), which
// discourages but never forbids reuse. Fewer than k paths is not an
// error, and zero paths means the trip contributes nothing.
func (r *Router) KShortestPaths(source, target string, k int) [][]int {
	if k < 1 {
		k = 1
	}

	penalty := make(map[int]int)
	weightFn := func(edge *da.GraphEdge) float64 {
		return edge.Weight * (1 + pkg.KPATH_EDGE_PENALTY_FACTOR*float64(penalty[edge.ID]))
	}

	paths := make([][]int, 0, k)
	seen := make(map[string]struct{}, k)

	attempts := util.MaxInt(k*4, k+2)
	for attempt := 0; attempt < attempts && len(paths) < k; attempt++ {
		path, _, found := r.ShortestPath(source, target, weightFn)
		if !found {
			break
		}

		key := pathKey(path)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			paths = append(paths, path)
		}

		for _, edgeID := range path {
			penalty[edgeID]++
		}
	}

	return paths
}

func pathKey(path []int) string {
	var sb strings.Builder
	for i, edgeID := range path {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(edgeID))
	}
	return sb.String()
}
