package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tourgraph/internal/domain"
)

// RouteRepo defines the persistence operations for Routes.
// Every operation is scoped by the owning user: a route owned by someone else
// behaves exactly like a route that does not exist.
type RouteRepo interface {
	// Create inserts a new route and returns the persisted record (with
	// DB-generated id and created_at populated).
	Create(ctx context.Context, route domain.Route) (domain.Route, error)

	// GetByID retrieves a single route owned by ownerID.
	// Returns domain.ErrNotFound if no such route exists for that owner.
	GetByID(ctx context.Context, ownerID uuid.UUID, routeID int64) (domain.Route, error)

	// List returns all routes of ownerID ordered by created_at descending.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Route, error)

	// NameTaken reports whether ownerID already has a route whose name equals
	// name ignoring case.
	NameTaken(ctx context.Context, ownerID uuid.UUID, name string) (bool, error)

	// Delete removes a route; its stops and connections go with it through the
	// schema's cascading foreign keys. Returns domain.ErrNotFound if nothing
	// was deleted.
	Delete(ctx context.Context, ownerID uuid.UUID, routeID int64) error

	// Stats counts the routes of ownerID, in total and created in the last
	// 7 and 30 days.
	Stats(ctx context.Context, ownerID uuid.UUID) (domain.RouteStats, error)
}

// pgRouteRepo is the Postgres implementation of RouteRepo.
type pgRouteRepo struct {
	db db
}

// NewRouteRepo constructs a RouteRepo backed by the provided db connection.
func NewRouteRepo(db db) RouteRepo {
	return &pgRouteRepo{db: db}
}

const routeColumns = `id, owner_user_id, name, description, created_at`

// Create inserts a new route row and returns the full persisted record.
func (r *pgRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	const q = `
		INSERT INTO routes (owner_user_id, name, description)
		VALUES (@owner_user_id, @name, NULLIF(@description::text, ''))
		RETURNING ` + routeColumns

	args := pgx.NamedArgs{
		"owner_user_id": route.OwnerID,
		"name":          route.Name,
		"description":   route.Description, // empty becomes NULL
	}

	result, err := scanRoute(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.Create: %w", classify(err))
	}
	return result, nil
}

// GetByID retrieves a route by primary key, scoped to its owner.
func (r *pgRouteRepo) GetByID(ctx context.Context, ownerID uuid.UUID, routeID int64) (domain.Route, error) {
	const q = `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE id = @id AND owner_user_id = @owner_user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": routeID, "owner_user_id": ownerID})
	result, err := scanRoute(row)
	if err != nil {
		return domain.Route{}, fmt.Errorf("repo.RouteRepo.GetByID: %w", classify(err))
	}
	return result, nil
}

// List returns the owner's routes, most recent first.
func (r *pgRouteRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Route, error) {
	const q = `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE owner_user_id = @owner_user_id
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_user_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.List: %w", classify(err))
	}
	routes, err := collect(rows, scanRoute)
	if err != nil {
		return nil, fmt.Errorf("repo.RouteRepo.List: %w", classify(err))
	}
	return routes, nil
}

// NameTaken compares case-insensitively; the unique constraint itself is
// case-sensitive and stays the final arbiter for concurrent inserts.
func (r *pgRouteRepo) NameTaken(ctx context.Context, ownerID uuid.UUID, name string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM routes
			WHERE owner_user_id = @owner_user_id AND lower(name) = lower(@name)
		)`

	var taken bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_user_id": ownerID, "name": name}).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("repo.RouteRepo.NameTaken: %w", classify(err))
	}
	return taken, nil
}

// Delete removes a route by primary key, scoped to its owner.
func (r *pgRouteRepo) Delete(ctx context.Context, ownerID uuid.UUID, routeID int64) error {
	const q = `DELETE FROM routes WHERE id = @id AND owner_user_id = @owner_user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": routeID, "owner_user_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.RouteRepo.Delete: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RouteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Stats aggregates in a single pass using FILTER clauses.
func (r *pgRouteRepo) Stats(ctx context.Context, ownerID uuid.UUID) (domain.RouteStats, error) {
	const q = `
		SELECT
			count(*),
			count(*) FILTER (WHERE created_at >= now() - interval '7 days'),
			count(*) FILTER (WHERE created_at >= now() - interval '30 days')
		FROM routes
		WHERE owner_user_id = @owner_user_id`

	var s domain.RouteStats
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"owner_user_id": ownerID}).Scan(&s.Total, &s.LastWeek, &s.LastMonth)
	if err != nil {
		return domain.RouteStats{}, fmt.Errorf("repo.RouteRepo.Stats: %w", classify(err))
	}
	return s, nil
}

// scanRoute maps a single database row into a domain.Route.
// It handles the UUID and nullable description conversions.
func scanRoute(s scanner) (domain.Route, error) {
	var (
		rt    domain.Route
		owner pgtype.UUID
		desc  pgtype.Text
	)

	if err := s.Scan(&rt.ID, &owner, &rt.Name, &desc, &rt.CreatedAt); err != nil {
		return domain.Route{}, err
	}

	rt.OwnerID = uuid.UUID(owner.Bytes)
	if desc.Valid {
		rt.Description = desc.String
	}
	return rt, nil
}
