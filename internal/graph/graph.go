package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkordes/tourgraph/internal/domain"
)

// Edge is a directed weighted edge From→To.
type Edge struct {
	From   int64
	To     int64
	Weight float64
}

// Graph is an immutable directed weighted graph over the stops of one route.
type Graph struct {
	stops []domain.Stop    // input order, which is creation order for store snapshots
	index map[int64]int    // stop ID → position in stops
	out   map[int64][]Edge // outgoing edges per node, sorted by To
	size  int
}

// New builds a Graph from a route's stops and connections.
//
// Every stop becomes a node. Each connection must reference two known,
// distinct stops, carry a finite non-negative distance and appear at most
// once per ordered pair.
func New(stops []domain.Stop, conns []domain.Connection) (*Graph, error) {
	g := &Graph{
		stops: make([]domain.Stop, 0, len(stops)),
		index: make(map[int64]int, len(stops)),
		out:   make(map[int64][]Edge, len(stops)),
	}

	for _, s := range stops {
		if _, dup := g.index[s.ID]; dup {
			return nil, fmt.Errorf("graph.New: stop %d: %w", s.ID, domain.ErrDuplicate)
		}
		g.index[s.ID] = len(g.stops)
		g.stops = append(g.stops, s)
	}

	seen := make(map[[2]int64]bool, len(conns))
	for _, c := range conns {
		if err := g.checkEdge(c, seen); err != nil {
			return nil, fmt.Errorf("graph.New: edge %d→%d: %w", c.OriginID, c.DestinationID, err)
		}
		seen[[2]int64{c.OriginID, c.DestinationID}] = true
		g.out[c.OriginID] = append(g.out[c.OriginID], Edge{From: c.OriginID, To: c.DestinationID, Weight: c.Distance})
		g.size++
	}

	for id := range g.out {
		edges := g.out[id]
		sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
	}

	return g, nil
}

func (g *Graph) checkEdge(c domain.Connection, seen map[[2]int64]bool) error {
	if !g.HasNode(c.OriginID) || !g.HasNode(c.DestinationID) {
		return domain.ErrNodeNotFound
	}
	if c.OriginID == c.DestinationID {
		return domain.ErrSelfLoop
	}
	if c.Distance < 0 || math.IsNaN(c.Distance) || math.IsInf(c.Distance, 0) {
		return fmt.Errorf("%w: distance must be a finite number >= 0", domain.ErrValidation)
	}
	if seen[[2]int64{c.OriginID, c.DestinationID}] {
		return domain.ErrDuplicate
	}
	return nil
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.stops) }

// Size returns the number of edges.
func (g *Graph) Size() int { return g.size }

// HasNode reports whether id is a node of g.
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns all node IDs in ascending order.
func (g *Graph) Nodes() []int64 {
	ids := make([]int64, 0, len(g.stops))
	for _, s := range g.stops {
		ids = append(ids, s.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stops returns a copy of the stops in the order they were given to New.
func (g *Graph) Stops() []domain.Stop {
	out := make([]domain.Stop, len(g.stops))
	copy(out, g.stops)
	return out
}

// Stop returns the stop behind node id.
func (g *Graph) Stop(id int64) (domain.Stop, bool) {
	i, ok := g.index[id]
	if !ok {
		return domain.Stop{}, false
	}
	return g.stops[i], true
}

// Successors returns the outgoing edges of id sorted by destination.
func (g *Graph) Successors(id int64) ([]Edge, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("graph.Successors: stop %d: %w", id, domain.ErrNodeNotFound)
	}
	edges := make([]Edge, len(g.out[id]))
	copy(edges, g.out[id])
	return edges, nil
}

// Edges returns every edge sorted by (From, To).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.size)
	for _, id := range g.Nodes() {
		edges = append(edges, g.out[id]...)
	}
	return edges
}
