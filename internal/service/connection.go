package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/repo"
)

// ConnectionService implements business logic for Connection operations.
//
// Create and Update check their input in a fixed order so the same bad
// request always yields the same error: route ownership, endpoint membership,
// self loop, distance, uniqueness. The store's constraints remain the final
// arbiter for races that slip past the uniqueness check.
type ConnectionService struct {
	store repo.Transactor
	opts  options
}

// NewConnectionService constructs a ConnectionService backed by the provided store.
func NewConnectionService(store repo.Transactor, opts ...Option) *ConnectionService {
	return &ConnectionService{store: store, opts: newOptions(opts)}
}

// ListForRoute returns the connections of a route ordered by origin name,
// then destination name, with endpoint names filled in.
// Returns domain.ErrNotFound if the route is not owned by owner.
func (s *ConnectionService) ListForRoute(ctx context.Context, routeID int64, owner uuid.UUID) ([]domain.Connection, error) {
	var conns []domain.Connection
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
				return err
			}
			var err error
			conns, err = r.Connections.ListByRouteID(ctx, routeID)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service.ConnectionService.ListForRoute: %w", err)
	}
	if conns == nil {
		return []domain.Connection{}, nil
	}
	return conns, nil
}

// ListForStop returns the connections leaving or entering stopID.
// Returns domain.ErrNotFound if the route is not owned by owner or the stop
// does not belong to it.
func (s *ConnectionService) ListForStop(ctx context.Context, stopID, routeID int64, owner uuid.UUID) ([]domain.Connection, error) {
	var conns []domain.Connection
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
				return err
			}
			if _, err := r.Stops.GetByID(ctx, routeID, stopID); err != nil {
				return err
			}
			var err error
			conns, err = r.Connections.ListByStopID(ctx, routeID, stopID)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service.ConnectionService.ListForStop: %w", err)
	}
	if conns == nil {
		return []domain.Connection{}, nil
	}
	return conns, nil
}

// Create adds the directed edge originID→destinationID to a route.
// Returns domain.ErrNotFound if the route is not owned by owner,
// domain.ErrInvalidEndpoint if either stop is outside the route,
// domain.ErrSelfLoop if both endpoints are the same stop,
// domain.ErrValidation for a negative or non-finite distance, and
// domain.ErrDuplicate if the ordered pair already exists.
func (s *ConnectionService) Create(ctx context.Context, routeID int64, owner uuid.UUID, originID, destinationID int64, distance float64) (domain.Connection, error) {
	conn := domain.Connection{
		RouteID:       routeID,
		OriginID:      originID,
		DestinationID: destinationID,
		Distance:      distance,
	}

	var created domain.Connection
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if err := checkConnection(ctx, r, owner, conn); err != nil {
			return err
		}
		if err := checkPairFree(ctx, r.Connections, originID, destinationID); err != nil {
			return err
		}
		var err error
		created, err = r.Connections.Create(ctx, conn)
		return err
	})
	if err != nil {
		return domain.Connection{}, fmt.Errorf("service.ConnectionService.Create: %w", err)
	}

	s.opts.log.DebugContext(ctx, "connection created",
		"route_id", routeID, "origin_stop_id", originID, "destination_stop_id", destinationID, "distance", distance)
	return created, nil
}

// Update changes the distance of originID→destinationID, or, when
// previousDestinationID names a different stop, re-targets the edge
// originID→previousDestinationID to destinationID. A re-target deletes the
// old edge and inserts the new one in the same transaction, so a failure
// leaves the old edge in place.
//
// Errors follow Create, plus domain.ErrNotFound when the edge being updated
// or re-targeted does not exist, and domain.ErrDuplicate when the re-target
// destination is already connected from originID. A zero distance is
// accepted with a warning.
func (s *ConnectionService) Update(
	ctx context.Context,
	routeID int64,
	owner uuid.UUID,
	originID, destinationID int64,
	distance float64,
	previousDestinationID *int64,
) (domain.Connection, error) {
	conn := domain.Connection{
		RouteID:       routeID,
		OriginID:      originID,
		DestinationID: destinationID,
		Distance:      distance,
	}
	retarget := previousDestinationID != nil && *previousDestinationID != destinationID

	var updated domain.Connection
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if err := checkConnection(ctx, r, owner, conn); err != nil {
			return err
		}
		if !retarget {
			var err error
			updated, err = r.Connections.UpdateDistance(ctx, conn)
			return err
		}

		prev := *previousDestinationID
		if _, err := r.Connections.Get(ctx, routeID, originID, prev); err != nil {
			return fmt.Errorf("connection %d→%d: %w", originID, prev, err)
		}
		if err := checkPairFree(ctx, r.Connections, originID, destinationID); err != nil {
			return err
		}
		if err := r.Connections.Delete(ctx, routeID, originID, prev); err != nil {
			return err
		}
		var err error
		updated, err = r.Connections.Create(ctx, conn)
		return err
	})
	if err != nil {
		return domain.Connection{}, fmt.Errorf("service.ConnectionService.Update: %w", err)
	}

	if distance == 0 {
		s.opts.log.WarnContext(ctx, "connection saved with zero distance",
			"route_id", routeID, "origin_stop_id", originID, "destination_stop_id", destinationID)
	}
	s.opts.log.DebugContext(ctx, "connection updated",
		"route_id", routeID, "origin_stop_id", originID, "destination_stop_id", destinationID,
		"distance", distance, "retargeted", retarget)
	return updated, nil
}

// Delete removes the directed edge originID→destinationID from a route.
// The reverse edge, if any, is left alone.
// Returns domain.ErrNotFound if the route is not owned by owner or the edge
// does not exist.
func (s *ConnectionService) Delete(ctx context.Context, routeID int64, owner uuid.UUID, originID, destinationID int64) error {
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
			return err
		}
		return r.Connections.Delete(ctx, routeID, originID, destinationID)
	})
	if err != nil {
		return fmt.Errorf("service.ConnectionService.Delete: %w", err)
	}

	s.opts.log.DebugContext(ctx, "connection deleted",
		"route_id", routeID, "origin_stop_id", originID, "destination_stop_id", destinationID)
	return nil
}

// checkConnection runs the ownership, membership, self-loop, and distance
// checks, in that order.
func checkConnection(ctx context.Context, r repo.Repos, owner uuid.UUID, c domain.Connection) error {
	if _, err := r.Routes.GetByID(ctx, owner, c.RouteID); err != nil {
		return err
	}

	want := 2
	if c.OriginID == c.DestinationID {
		want = 1
	}
	n, err := r.Stops.CountInRoute(ctx, c.RouteID, c.OriginID, c.DestinationID)
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("%w: one or both stops do not belong to route %d", domain.ErrInvalidEndpoint, c.RouteID)
	}

	if c.OriginID == c.DestinationID {
		return fmt.Errorf("%w: stop %d cannot connect to itself", domain.ErrSelfLoop, c.OriginID)
	}
	return validateDistance(c.Distance)
}

func checkPairFree(ctx context.Context, conns repo.ConnectionRepo, originID, destinationID int64) error {
	exists, err := conns.Exists(ctx, originID, destinationID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: connection %d→%d already exists", domain.ErrDuplicate, originID, destinationID)
	}
	return nil
}

func validateDistance(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("%w: distance must be a finite number", domain.ErrValidation)
	}
	if d < 0 {
		return fmt.Errorf("%w: distance must not be negative", domain.ErrValidation)
	}
	return nil
}
