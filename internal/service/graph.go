package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/graph"
	"github.com/pkordes/tourgraph/internal/repo"
)

// GraphService answers path and availability questions about a route.
// Each call reads the route's current stops and connections and builds a new
// graph from them; graphs are never cached or shared between calls.
type GraphService struct {
	store repo.Transactor
	opts  options
}

// NewGraphService constructs a GraphService backed by the provided store.
func NewGraphService(store repo.Transactor, opts ...Option) *GraphService {
	return &GraphService{store: store, opts: newOptions(opts)}
}

// Build reads a route's stops and connections in one transaction and returns
// the graph they form. Stops without connections are still nodes.
// Returns domain.ErrNotFound if the route is not owned by owner.
func (s *GraphService) Build(ctx context.Context, routeID int64, owner uuid.UUID) (*graph.Graph, error) {
	var (
		stops []domain.Stop
		conns []domain.Connection
	)
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
				return err
			}
			var err error
			if stops, err = r.Stops.ListByRouteID(ctx, routeID); err != nil {
				return err
			}
			conns, err = r.Connections.ListByRouteID(ctx, routeID)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service.GraphService.Build: %w", err)
	}

	g, err := graph.New(stops, conns)
	if err != nil {
		return nil, fmt.Errorf("service.GraphService.Build: %w", err)
	}
	return g, nil
}

// ShortestPath returns the minimum-distance path from source to target.
// Returns domain.ErrNodeNotFound if either stop is not part of the route and
// domain.ErrNoPath if target cannot be reached.
func (s *GraphService) ShortestPath(ctx context.Context, routeID int64, owner uuid.UUID, source, target int64) (domain.Path, error) {
	g, err := s.Build(ctx, routeID, owner)
	if err != nil {
		return domain.Path{}, fmt.Errorf("service.GraphService.ShortestPath: %w", err)
	}
	path, err := g.ShortestPath(source, target)
	if err != nil {
		return domain.Path{}, fmt.Errorf("service.GraphService.ShortestPath: %w", err)
	}
	return path, nil
}

// AvailableDestinations returns the stops source could still be connected
// to: every other stop of the route that source has no edge to yet.
// Returns domain.ErrNotFound if the route is not owned by owner or source is
// not one of its stops.
func (s *GraphService) AvailableDestinations(ctx context.Context, routeID int64, owner uuid.UUID, source int64) ([]domain.Stop, error) {
	g, err := s.Build(ctx, routeID, owner)
	if err != nil {
		return nil, fmt.Errorf("service.GraphService.AvailableDestinations: %w", err)
	}
	stops, err := g.AvailableDestinations(source)
	if errors.Is(err, domain.ErrNodeNotFound) {
		return nil, fmt.Errorf("service.GraphService.AvailableDestinations: stop %d: %w", source, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("service.GraphService.AvailableDestinations: %w", err)
	}
	return stops, nil
}
