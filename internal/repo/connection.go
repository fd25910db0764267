package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tourgraph/internal/domain"
)

// ConnectionRepo defines the persistence operations for Connections.
// A connection belongs to a route through its endpoint stops, so every query
// joins stops and filters on route_id.
type ConnectionRepo interface {
	// Create inserts a new connection and returns it with endpoint names.
	// A second row for the same ordered pair fails with domain.ErrDuplicate;
	// a self loop fails with domain.ErrSelfLoop.
	Create(ctx context.Context, c domain.Connection) (domain.Connection, error)

	// Get retrieves the connection originID→destinationID within routeID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, routeID, originID, destinationID int64) (domain.Connection, error)

	// Exists reports whether the ordered pair originID→destinationID exists.
	Exists(ctx context.Context, originID, destinationID int64) (bool, error)

	// ListByRouteID returns all connections whose endpoints both belong to
	// routeID, ordered by origin name then destination name.
	ListByRouteID(ctx context.Context, routeID int64) ([]domain.Connection, error)

	// ListByStopID returns the connections where stopID is the origin or the
	// destination, in the same order as ListByRouteID.
	ListByStopID(ctx context.Context, routeID, stopID int64) ([]domain.Connection, error)

	// UpdateDistance sets the distance of an existing connection.
	// Returns domain.ErrNotFound if the ordered pair does not exist in c.RouteID.
	UpdateDistance(ctx context.Context, c domain.Connection) (domain.Connection, error)

	// Delete removes the ordered pair originID→destinationID from routeID.
	// Returns domain.ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, routeID, originID, destinationID int64) error
}

// pgConnectionRepo is the Postgres implementation of ConnectionRepo.
type pgConnectionRepo struct {
	db db
}

// NewConnectionRepo constructs a ConnectionRepo backed by the provided db connection.
func NewConnectionRepo(db db) ConnectionRepo {
	return &pgConnectionRepo{db: db}
}

// connectionSelect projects a row set named c (origin_stop_id,
// destination_stop_id, distance) onto the columns scanConnection expects.
const connectionSelect = `
		SELECT o.route_id, c.origin_stop_id, c.destination_stop_id, c.distance, o.name, d.name
		FROM c
		JOIN stops o ON o.id = c.origin_stop_id
		JOIN stops d ON d.id = c.destination_stop_id`

func (r *pgConnectionRepo) Create(ctx context.Context, conn domain.Connection) (domain.Connection, error) {
	const q = `
		WITH c AS (
			INSERT INTO connections (origin_stop_id, destination_stop_id, distance)
			VALUES (@origin_id, @destination_id, @distance)
			RETURNING origin_stop_id, destination_stop_id, distance
		)` + connectionSelect

	args := pgx.NamedArgs{
		"origin_id":      conn.OriginID,
		"destination_id": conn.DestinationID,
		"distance":       conn.Distance,
	}

	result, err := scanConnection(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Connection{}, fmt.Errorf("repo.ConnectionRepo.Create: %w", classify(err))
	}
	return result, nil
}

func (r *pgConnectionRepo) Get(ctx context.Context, routeID, originID, destinationID int64) (domain.Connection, error) {
	const q = `
		WITH c AS (
			SELECT origin_stop_id, destination_stop_id, distance
			FROM connections
			WHERE origin_stop_id = @origin_id AND destination_stop_id = @destination_id
		)` + connectionSelect + `
		WHERE o.route_id = @route_id AND d.route_id = @route_id`

	args := pgx.NamedArgs{"route_id": routeID, "origin_id": originID, "destination_id": destinationID}

	result, err := scanConnection(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Connection{}, fmt.Errorf("repo.ConnectionRepo.Get: %w", classify(err))
	}
	return result, nil
}

func (r *pgConnectionRepo) Exists(ctx context.Context, originID, destinationID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM connections
			WHERE origin_stop_id = @origin_id AND destination_stop_id = @destination_id
		)`

	var exists bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"origin_id": originID, "destination_id": destinationID}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repo.ConnectionRepo.Exists: %w", classify(err))
	}
	return exists, nil
}

func (r *pgConnectionRepo) ListByRouteID(ctx context.Context, routeID int64) ([]domain.Connection, error) {
	const q = `
		WITH c AS (
			SELECT origin_stop_id, destination_stop_id, distance FROM connections
		)` + connectionSelect + `
		WHERE o.route_id = @route_id AND d.route_id = @route_id
		ORDER BY o.name, d.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("repo.ConnectionRepo.ListByRouteID: %w", classify(err))
	}
	conns, err := collect(rows, scanConnection)
	if err != nil {
		return nil, fmt.Errorf("repo.ConnectionRepo.ListByRouteID: %w", classify(err))
	}
	return conns, nil
}

func (r *pgConnectionRepo) ListByStopID(ctx context.Context, routeID, stopID int64) ([]domain.Connection, error) {
	const q = `
		WITH c AS (
			SELECT origin_stop_id, destination_stop_id, distance
			FROM connections
			WHERE origin_stop_id = @stop_id OR destination_stop_id = @stop_id
		)` + connectionSelect + `
		WHERE o.route_id = @route_id AND d.route_id = @route_id
		ORDER BY o.name, d.name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID, "stop_id": stopID})
	if err != nil {
		return nil, fmt.Errorf("repo.ConnectionRepo.ListByStopID: %w", classify(err))
	}
	conns, err := collect(rows, scanConnection)
	if err != nil {
		return nil, fmt.Errorf("repo.ConnectionRepo.ListByStopID: %w", classify(err))
	}
	return conns, nil
}

func (r *pgConnectionRepo) UpdateDistance(ctx context.Context, conn domain.Connection) (domain.Connection, error) {
	const q = `
		WITH c AS (
			UPDATE connections AS u
			SET distance   = @distance,
			    updated_at = now()
			FROM stops s
			WHERE u.origin_stop_id = @origin_id
			  AND u.destination_stop_id = @destination_id
			  AND s.id = u.origin_stop_id
			  AND s.route_id = @route_id
			RETURNING u.origin_stop_id, u.destination_stop_id, u.distance
		)` + connectionSelect

	args := pgx.NamedArgs{
		"route_id":       conn.RouteID,
		"origin_id":      conn.OriginID,
		"destination_id": conn.DestinationID,
		"distance":       conn.Distance,
	}

	result, err := scanConnection(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Connection{}, fmt.Errorf("repo.ConnectionRepo.UpdateDistance: %w", classify(err))
	}
	return result, nil
}

func (r *pgConnectionRepo) Delete(ctx context.Context, routeID, originID, destinationID int64) error {
	const q = `
		DELETE FROM connections AS c
		USING stops s
		WHERE c.origin_stop_id = @origin_id
		  AND c.destination_stop_id = @destination_id
		  AND s.id = c.origin_stop_id
		  AND s.route_id = @route_id`

	args := pgx.NamedArgs{"route_id": routeID, "origin_id": originID, "destination_id": destinationID}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.ConnectionRepo.Delete: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ConnectionRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanConnection maps a single joined row into a domain.Connection.
func scanConnection(s scanner) (domain.Connection, error) {
	var c domain.Connection
	err := s.Scan(&c.RouteID, &c.OriginID, &c.DestinationID, &c.Distance, &c.OriginName, &c.DestinationName)
	if err != nil {
		return domain.Connection{}, err
	}
	return c, nil
}
