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

// StopService implements business logic for Stop operations.
// Every operation first verifies that the parent route is owned by the
// caller, inside the same transaction as the work itself.
type StopService struct {
	store repo.Transactor
	opts  options
}

// NewStopService constructs a StopService backed by the provided store.
func NewStopService(store repo.Transactor, opts ...Option) *StopService {
	return &StopService{store: store, opts: newOptions(opts)}
}

// List returns the stops of a route ordered by creation time.
// Returns domain.ErrNotFound if the route is not owned by owner.
func (s *StopService) List(ctx context.Context, routeID int64, owner uuid.UUID) ([]domain.Stop, error) {
	var stops []domain.Stop
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
				return err
			}
			var err error
			stops, err = r.Stops.ListByRouteID(ctx, routeID)
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("service.StopService.List: %w", err)
	}
	if stops == nil {
		return []domain.Stop{}, nil
	}
	return stops, nil
}

// Get returns a single stop of an owned route.
// Returns domain.ErrNotFound if the route or the stop does not exist.
func (s *StopService) Get(ctx context.Context, stopID, routeID int64, owner uuid.UUID) (domain.Stop, error) {
	var stop domain.Stop
	err := s.opts.read(ctx, func(ctx context.Context) error {
		return s.store.InTx(ctx, func(r repo.Repos) error {
			if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
				return err
			}
			var err error
			stop, err = r.Stops.GetByID(ctx, routeID, stopID)
			return err
		})
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Get: %w", err)
	}
	return stop, nil
}

// Create verifies the parent route, validates the stop, then persists.
// Returns domain.ErrNotFound if the route is not owned by owner.
// Returns domain.ErrValidation if the name is empty or too long.
// Returns domain.ErrDuplicate if the route already has a stop with that name.
func (s *StopService) Create(ctx context.Context, routeID int64, owner uuid.UUID, name, description string) (domain.Stop, error) {
	stop := domain.Stop{
		RouteID:     routeID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}

	var created domain.Stop
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
			return err
		}
		if err := validateStop(stop); err != nil {
			return err
		}
		if err := checkStopName(ctx, r.Stops, stop, 0); err != nil {
			return err
		}
		var err error
		created, err = r.Stops.Create(ctx, stop)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Create: %w", err)
	}

	s.opts.log.DebugContext(ctx, "stop created", "route_id", routeID, "stop_id", created.ID)
	return created, nil
}

// Update renames or re-describes an existing stop.
// Returns domain.ErrNotFound if the route or the stop does not exist,
// domain.ErrValidation for invalid input, and domain.ErrDuplicate if another
// stop of the route already has the new name.
func (s *StopService) Update(ctx context.Context, stopID, routeID int64, owner uuid.UUID, name, description string) (domain.Stop, error) {
	stop := domain.Stop{
		ID:          stopID,
		RouteID:     routeID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}

	var updated domain.Stop
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
			return err
		}
		if _, err := r.Stops.GetByID(ctx, routeID, stopID); err != nil {
			return err
		}
		if err := validateStop(stop); err != nil {
			return err
		}
		if err := checkStopName(ctx, r.Stops, stop, stopID); err != nil {
			return err
		}
		var err error
		updated, err = r.Stops.Update(ctx, stop)
		return err
	})
	if err != nil {
		return domain.Stop{}, fmt.Errorf("service.StopService.Update: %w", err)
	}

	s.opts.log.DebugContext(ctx, "stop updated", "route_id", routeID, "stop_id", stopID)
	return updated, nil
}

// Delete removes a stop and every connection that touches it.
// Returns domain.ErrNotFound if the route or the stop does not exist.
func (s *StopService) Delete(ctx context.Context, stopID, routeID int64, owner uuid.UUID) error {
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Routes.GetByID(ctx, owner, routeID); err != nil {
			return err
		}
		return r.Stops.Delete(ctx, routeID, stopID)
	})
	if err != nil {
		return fmt.Errorf("service.StopService.Delete: %w", err)
	}

	s.opts.log.DebugContext(ctx, "stop deleted", "route_id", routeID, "stop_id", stopID)
	return nil
}

func checkStopName(ctx context.Context, stops repo.StopRepo, stop domain.Stop, excludeID int64) error {
	taken, err := stops.NameTaken(ctx, stop.RouteID, stop.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: a stop named %q already exists in this route", domain.ErrDuplicate, stop.Name)
	}
	return nil
}

// validateStop enforces business rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - Name must not exceed StopNameMaxLen characters.
//   - Name and description must be valid UTF-8 without NUL bytes.
func validateStop(stop domain.Stop) error {
	if stop.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if err := validateText("name", stop.Name); err != nil {
		return err
	}
	if err := validateText("description", stop.Description); err != nil {
		return err
	}
	if utf8.RuneCountInString(stop.Name) > domain.StopNameMaxLen {
		return fmt.Errorf("%w: name must not exceed %d characters", domain.ErrValidation, domain.StopNameMaxLen)
	}
	return nil
}
