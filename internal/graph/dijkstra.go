package graph

import (
	"container/heap"
	"fmt"

	"github.com/pkordes/tourgraph/internal/domain"
)

// ShortestPath returns the minimum-distance directed path from source to
// target.
//
// A path from a node to itself is the single node at distance 0. Unknown IDs
// yield domain.ErrNodeNotFound; an unreachable target yields domain.ErrNoPath.
func (g *Graph) ShortestPath(source, target int64) (domain.Path, error) {
	if !g.HasNode(source) {
		return domain.Path{}, fmt.Errorf("graph.ShortestPath: source %d: %w", source, domain.ErrNodeNotFound)
	}
	if !g.HasNode(target) {
		return domain.Path{}, fmt.Errorf("graph.ShortestPath: target %d: %w", target, domain.ErrNodeNotFound)
	}
	if source == target {
		return domain.Path{Nodes: []int64{source}, TotalDistance: 0}, nil
	}

	r := &runner{
		g:     g,
		dist:  map[int64]float64{source: 0},
		prev:  make(map[int64]int64, g.Order()),
		final: make(map[int64]bool, g.Order()),
	}
	r.run(source, target)

	if !r.final[target] {
		return domain.Path{}, fmt.Errorf("graph.ShortestPath: %d→%d: %w", source, target, domain.ErrNoPath)
	}
	return domain.Path{Nodes: r.walkBack(source, target), TotalDistance: r.dist[target]}, nil
}

// runner holds the mutable state of a single Dijkstra execution.
type runner struct {
	g     *Graph
	dist  map[int64]float64 // best known distance from the source
	prev  map[int64]int64   // predecessor on the best known path
	final map[int64]bool    // distance can no longer improve
	pq    nodePQ
}

// run settles nodes in (distance, id) order until target is final or the
// frontier is exhausted. Stale heap entries are skipped when popped.
func (r *runner) run(source, target int64) {
	heap.Push(&r.pq, nodeItem{id: source, dist: 0})

	for r.pq.Len() > 0 {
		u := heap.Pop(&r.pq).(nodeItem)
		if r.final[u.id] {
			continue
		}
		r.final[u.id] = true
		if u.id == target {
			return
		}
		r.relax(u)
	}
}

func (r *runner) relax(u nodeItem) {
	for _, e := range r.g.out[u.id] {
		if r.final[e.To] {
			continue
		}
		candidate := u.dist + e.Weight
		// Strictly shorter only: on a tie the earlier-settled predecessor stays.
		if best, seen := r.dist[e.To]; seen && candidate >= best {
			continue
		}
		r.dist[e.To] = candidate
		r.prev[e.To] = u.id
		heap.Push(&r.pq, nodeItem{id: e.To, dist: candidate})
	}
}

func (r *runner) walkBack(source, target int64) []int64 {
	var rev []int64
	for at := target; at != source; at = r.prev[at] {
		rev = append(rev, at)
	}
	rev = append(rev, source)

	nodes := make([]int64, len(rev))
	for i, id := range rev {
		nodes[len(rev)-1-i] = id
	}
	return nodes
}

// nodeItem is a heap entry: a node and the tentative distance it was pushed with.
type nodeItem struct {
	id   int64
	dist float64
}

// nodePQ is a min-heap of nodeItem ordered by dist, then by id.
type nodePQ []nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
