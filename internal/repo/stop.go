package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tourgraph/internal/domain"
)

// StopRepo defines the persistence operations for Stops.
// All write and single-read operations are scoped by routeID. Route ownership
// is verified by the caller through RouteRepo.GetByID in the same transaction.
type StopRepo interface {
	// Create inserts a new stop and returns the persisted record.
	Create(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// GetByID retrieves a single stop by its ID, scoped to the given routeID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that route.
	GetByID(ctx context.Context, routeID, stopID int64) (domain.Stop, error)

	// ListByRouteID returns all stops of a route ordered by creation time
	// ascending, ties broken by ID.
	ListByRouteID(ctx context.Context, routeID int64) ([]domain.Stop, error)

	// NameTaken reports whether another stop of the route already uses name.
	// Pass excludeID = 0 on create; on update pass the stop being renamed.
	NameTaken(ctx context.Context, routeID int64, name string, excludeID int64) (bool, error)

	// CountInRoute returns how many of the distinct stopIDs belong to routeID.
	CountInRoute(ctx context.Context, routeID int64, stopIDs ...int64) (int, error)

	// Update overwrites the mutable fields of a stop, scoped to stop.RouteID.
	// Returns domain.ErrNotFound if no stop with that ID exists under that route.
	Update(ctx context.Context, stop domain.Stop) (domain.Stop, error)

	// Delete removes a stop by ID, scoped to the given routeID. Connections
	// touching the stop are removed by the cascading foreign keys.
	// Returns domain.ErrNotFound if no stop with that ID exists under that route.
	Delete(ctx context.Context, routeID, stopID int64) error
}

// pgStopRepo is the Postgres implementation of StopRepo.
type pgStopRepo struct {
	db db
}

// NewStopRepo constructs a StopRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStopRepo(db db) StopRepo {
	return &pgStopRepo{db: db}
}

const stopColumns = `id, route_id, name, description, created_at`

func (r *pgStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		INSERT INTO stops (route_id, name, description)
		VALUES (@route_id, @name, NULLIF(@description::text, ''))
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"route_id":    stop.RouteID,
		"name":        stop.Name,
		"description": stop.Description,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Create: %w", classify(err))
	}
	return result, nil
}

func (r *pgStopRepo) GetByID(ctx context.Context, routeID, stopID int64) (domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE id = @id AND route_id = @route_id`

	result, err := scanStop(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": stopID, "route_id": routeID}))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.GetByID: %w", classify(err))
	}
	return result, nil
}

func (r *pgStopRepo) ListByRouteID(ctx context.Context, routeID int64) ([]domain.Stop, error) {
	const q = `
		SELECT ` + stopColumns + `
		FROM stops
		WHERE route_id = @route_id
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"route_id": routeID})
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByRouteID: %w", classify(err))
	}
	stops, err := collect(rows, scanStop)
	if err != nil {
		return nil, fmt.Errorf("repo.StopRepo.ListByRouteID: %w", classify(err))
	}
	return stops, nil
}

func (r *pgStopRepo) NameTaken(ctx context.Context, routeID int64, name string, excludeID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM stops
			WHERE route_id = @route_id AND name = @name AND id <> @exclude_id
		)`

	args := pgx.NamedArgs{"route_id": routeID, "name": name, "exclude_id": excludeID}

	var taken bool
	if err := r.db.QueryRow(ctx, q, args).Scan(&taken); err != nil {
		return false, fmt.Errorf("repo.StopRepo.NameTaken: %w", classify(err))
	}
	return taken, nil
}

func (r *pgStopRepo) CountInRoute(ctx context.Context, routeID int64, stopIDs ...int64) (int, error) {
	const q = `
		SELECT count(*)
		FROM stops
		WHERE route_id = @route_id AND id = ANY(@ids)`

	var n int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"route_id": routeID, "ids": stopIDs}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.StopRepo.CountInRoute: %w", classify(err))
	}
	return n, nil
}

func (r *pgStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	const q = `
		UPDATE stops
		SET name        = @name,
		    description = NULLIF(@description::text, '')
		WHERE id = @id AND route_id = @route_id
		RETURNING ` + stopColumns

	args := pgx.NamedArgs{
		"id":          stop.ID,
		"route_id":    stop.RouteID,
		"name":        stop.Name,
		"description": stop.Description,
	}

	result, err := scanStop(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Stop{}, fmt.Errorf("repo.StopRepo.Update: %w", classify(err))
	}
	return result, nil
}

func (r *pgStopRepo) Delete(ctx context.Context, routeID, stopID int64) error {
	const q = `DELETE FROM stops WHERE id = @id AND route_id = @route_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": stopID, "route_id": routeID})
	if err != nil {
		return fmt.Errorf("repo.StopRepo.Delete: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StopRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanStop maps a single database row into a domain.Stop.
func scanStop(s scanner) (domain.Stop, error) {
	var (
		st   domain.Stop
		desc pgtype.Text
	)
	if err := s.Scan(&st.ID, &st.RouteID, &st.Name, &desc, &st.CreatedAt); err != nil {
		return domain.Stop{}, err
	}
	if desc.Valid {
		st.Description = desc.String
	}
	return st, nil
}
