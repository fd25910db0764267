package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/repo"
)

// RouteService implements business logic for Route operations.
type RouteService struct {
	store repo.Transactor
	opts  options
}

// NewRouteService constructs a RouteService backed by the provided store.
func NewRouteService(store repo.Transactor, opts ...Option) *RouteService {
	return &RouteService{store: store, opts: newOptions(opts)}
}

// List returns the routes owned by owner, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RouteService) List(ctx context.Context, owner uuid.UUID) ([]domain.Route, error) {
	var routes []domain.Route
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			var err error
			routes, err = r.Routes.List(ctx, owner)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service.RouteService.List: %w", err)
	}
	if routes == nil {
		return []domain.Route{}, nil
	}
	return routes, nil
}

// Create validates and persists a new route for owner.
// Returns domain.ErrValidation if the name or description is out of bounds.
// Returns domain.ErrDuplicate if owner already has a route with that name,
// compared case-insensitively.
func (s *RouteService) Create(ctx context.Context, owner uuid.UUID, name, description string) (domain.Route, error) {
	route := domain.Route{
		OwnerID:     owner,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := validateRoute(route); err != nil {
		return domain.Route{}, err
	}

	var created domain.Route
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		taken, err := r.Routes.NameTaken(ctx, owner, route.Name)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: a route named %q already exists", domain.ErrDuplicate, route.Name)
		}
		created, err = r.Routes.Create(ctx, route)
		return err
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Create: %w", err)
	}

	s.opts.log.DebugContext(ctx, "route created", "route_id", created.ID, "owner_user_id", owner)
	return created, nil
}

// Get returns a single route owned by owner.
// Returns domain.ErrNotFound if the route does not exist or belongs to
// someone else.
func (s *RouteService) Get(ctx context.Context, routeID int64, owner uuid.UUID) (domain.Route, error) {
	var route domain.Route
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			var err error
			route, err = r.Routes.GetByID(ctx, owner, routeID)
			return err
		})
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("service.RouteService.Get: %w", err)
	}
	return route, nil
}

// Delete removes a route together with all of its stops and connections.
// Returns domain.ErrNotFound if the route does not exist or belongs to
// someone else; nothing is removed in that case.
func (s *RouteService) Delete(ctx context.Context, routeID int64, owner uuid.UUID) error {
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		return r.Routes.Delete(ctx, owner, routeID)
	})
	if err != nil {
		return fmt.Errorf("service.RouteService.Delete: %w", err)
	}

	s.opts.log.DebugContext(ctx, "route deleted", "route_id", routeID, "owner_user_id", owner)
	return nil
}

// Stats reports how many routes owner has, in total and created within the
// last week and month.
func (s *RouteService) Stats(ctx context.Context, owner uuid.UUID) (domain.RouteStats, error) {
	var stats domain.RouteStats
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			var err error
			stats, err = r.Routes.Stats(ctx, owner)
			return err
		})
	})
	if err != nil {
		return domain.RouteStats{}, fmt.Errorf("service.RouteService.Stats: %w", err)
	}
	return stats, nil
}

// validateRoute enforces the route business rules on already-trimmed input.
//   - Name and description must be valid UTF-8 without NUL bytes.
//   - Name must be between RouteNameMinLen and RouteNameMaxLen characters.
//   - Description, if present, must not exceed RouteDescriptionMaxLen characters.
func validateRoute(route domain.Route) error {
	if err := validateText("name", route.Name); err != nil {
		return err
	}
	if err := validateText("description", route.Description); err != nil {
		return err
	}
	n := utf8.RuneCountInString(route.Name)
	if n < domain.RouteNameMinLen || n > domain.RouteNameMaxLen {
		return fmt.Errorf("%w: name must be between %d and %d characters",
			domain.ErrValidation, domain.RouteNameMinLen, domain.RouteNameMaxLen)
	}
	if utf8.RuneCountInString(route.Description) > domain.RouteDescriptionMaxLen {
		return fmt.Errorf("%w: description must not exceed %d characters",
			domain.ErrValidation, domain.RouteDescriptionMaxLen)
	}
	return nil
}

// validateText rejects text the store cannot hold: invalid UTF-8 and NUL bytes.
func validateText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %s must be valid UTF-8", domain.ErrValidation, field)
	}
	if strings.ContainsRune(s, 0) {
		return fmt.Errorf("%w: %s must not contain NUL bytes", domain.ErrValidation, field)
	}
	return nil
}
