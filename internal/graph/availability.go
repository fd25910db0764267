package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkordes/tourgraph/internal/domain"
)

// AvailableDestinations returns the stops that source may still connect to:
// every stop except source itself and the current destinations of its
// outgoing edges, ordered by name ignoring case, then by ID.
func (g *Graph) AvailableDestinations(source int64) ([]domain.Stop, error) {
	if !g.HasNode(source) {
		return nil, fmt.Errorf("graph.AvailableDestinations: stop %d: %w", source, domain.ErrNodeNotFound)
	}

	connected := make(map[int64]bool, len(g.out[source]))
	for _, e := range g.out[source] {
		connected[e.To] = true
	}

	out := []domain.Stop{}
	for _, s := range g.stops {
		if s.ID == source || connected[s.ID] {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
