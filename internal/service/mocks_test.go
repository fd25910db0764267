package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/repo"
)

// ---- mock repos ------------------------------------------------------------

// mockRouteRepo is a hand-written test double for repo.RouteRepo.
type mockRouteRepo struct {
	create    func(ctx context.Context, route domain.Route) (domain.Route, error)
	getByID   func(ctx context.Context, ownerID uuid.UUID, routeID int64) (domain.Route, error)
	list      func(ctx context.Context, ownerID uuid.UUID) ([]domain.Route, error)
	nameTaken func(ctx context.Context, ownerID uuid.UUID, name string) (bool, error)
	delete    func(ctx context.Context, ownerID uuid.UUID, routeID int64) error
	stats     func(ctx context.Context, ownerID uuid.UUID) (domain.RouteStats, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, route domain.Route) (domain.Route, error) {
	return m.create(ctx, route)
}
func (m *mockRouteRepo) GetByID(ctx context.Context, ownerID uuid.UUID, routeID int64) (domain.Route, error) {
	return m.getByID(ctx, ownerID, routeID)
}
func (m *mockRouteRepo) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Route, error) {
	return m.list(ctx, ownerID)
}
func (m *mockRouteRepo) NameTaken(ctx context.Context, ownerID uuid.UUID, name string) (bool, error) {
	return m.nameTaken(ctx, ownerID, name)
}
func (m *mockRouteRepo) Delete(ctx context.Context, ownerID uuid.UUID, routeID int64) error {
	return m.delete(ctx, ownerID, routeID)
}
func (m *mockRouteRepo) Stats(ctx context.Context, ownerID uuid.UUID) (domain.RouteStats, error) {
	return m.stats(ctx, ownerID)
}

// compile-time check: mockRouteRepo must satisfy repo.RouteRepo.
var _ repo.RouteRepo = (*mockRouteRepo)(nil)

// mockStopRepo is a hand-written test double for repo.StopRepo.
type mockStopRepo struct {
	create        func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	getByID       func(ctx context.Context, routeID, stopID int64) (domain.Stop, error)
	listByRouteID func(ctx context.Context, routeID int64) ([]domain.Stop, error)
	nameTaken     func(ctx context.Context, routeID int64, name string, excludeID int64) (bool, error)
	countInRoute  func(ctx context.Context, routeID int64, stopIDs ...int64) (int, error)
	update        func(ctx context.Context, stop domain.Stop) (domain.Stop, error)
	delete        func(ctx context.Context, routeID, stopID int64) error
}

func (m *mockStopRepo) Create(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.create(ctx, stop)
}
func (m *mockStopRepo) GetByID(ctx context.Context, routeID, stopID int64) (domain.Stop, error) {
	return m.getByID(ctx, routeID, stopID)
}
func (m *mockStopRepo) ListByRouteID(ctx context.Context, routeID int64) ([]domain.Stop, error) {
	return m.listByRouteID(ctx, routeID)
}
func (m *mockStopRepo) NameTaken(ctx context.Context, routeID int64, name string, excludeID int64) (bool, error) {
	return m.nameTaken(ctx, routeID, name, excludeID)
}
func (m *mockStopRepo) CountInRoute(ctx context.Context, routeID int64, stopIDs ...int64) (int, error) {
	return m.countInRoute(ctx, routeID, stopIDs...)
}
func (m *mockStopRepo) Update(ctx context.Context, stop domain.Stop) (domain.Stop, error) {
	return m.update(ctx, stop)
}
func (m *mockStopRepo) Delete(ctx context.Context, routeID, stopID int64) error {
	return m.delete(ctx, routeID, stopID)
}

// compile-time check: mockStopRepo must satisfy repo.StopRepo.
var _ repo.StopRepo = (*mockStopRepo)(nil)

// mockConnectionRepo is a hand-written test double for repo.ConnectionRepo.
type mockConnectionRepo struct {
	create         func(ctx context.Context, c domain.Connection) (domain.Connection, error)
	get            func(ctx context.Context, routeID, originID, destinationID int64) (domain.Connection, error)
	exists         func(ctx context.Context, originID, destinationID int64) (bool, error)
	listByRouteID  func(ctx context.Context, routeID int64) ([]domain.Connection, error)
	listByStopID   func(ctx context.Context, routeID, stopID int64) ([]domain.Connection, error)
	updateDistance func(ctx context.Context, c domain.Connection) (domain.Connection, error)
	delete         func(ctx context.Context, routeID, originID, destinationID int64) error
}

func (m *mockConnectionRepo) Create(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	return m.create(ctx, c)
}
func (m *mockConnectionRepo) Get(ctx context.Context, routeID, originID, destinationID int64) (domain.Connection, error) {
	return m.get(ctx, routeID, originID, destinationID)
}
func (m *mockConnectionRepo) Exists(ctx context.Context, originID, destinationID int64) (bool, error) {
	return m.exists(ctx, originID, destinationID)
}
func (m *mockConnectionRepo) ListByRouteID(ctx context.Context, routeID int64) ([]domain.Connection, error) {
	return m.listByRouteID(ctx, routeID)
}
func (m *mockConnectionRepo) ListByStopID(ctx context.Context, routeID, stopID int64) ([]domain.Connection, error) {
	return m.listByStopID(ctx, routeID, stopID)
}
func (m *mockConnectionRepo) UpdateDistance(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	return m.updateDistance(ctx, c)
}
func (m *mockConnectionRepo) Delete(ctx context.Context, routeID, originID, destinationID int64) error {
	return m.delete(ctx, routeID, originID, destinationID)
}

// compile-time check: mockConnectionRepo must satisfy repo.ConnectionRepo.
var _ repo.ConnectionRepo = (*mockConnectionRepo)(nil)

// ---- fake transactor -------------------------------------------------------

// fakeStore is a repo.Transactor that hands the same mocks to every unit of
// work. Errors queued in fail are returned by successive InTx calls instead
// of running fn, which simulates an unreachable database.
type fakeStore struct {
	repos repo.Repos
	calls int
	fail  []error
}

func (f *fakeStore) InTx(_ context.Context, fn func(r repo.Repos) error) error {
	f.calls++
	if len(f.fail) > 0 {
		err := f.fail[0]
		f.fail = f.fail[1:]
		if err != nil {
			return err
		}
	}
	return fn(f.repos)
}

var _ repo.Transactor = (*fakeStore)(nil)

// newStore wires the given mocks into a fakeStore. Nil arguments are replaced
// with empty mocks, whose methods panic if called.
func newStore(routes *mockRouteRepo, stops *mockStopRepo, conns *mockConnectionRepo) *fakeStore {
	if routes == nil {
		routes = &mockRouteRepo{}
	}
	if stops == nil {
		stops = &mockStopRepo{}
	}
	if conns == nil {
		conns = &mockConnectionRepo{}
	}
	return &fakeStore{repos: repo.Repos{Routes: routes, Stops: stops, Connections: conns}}
}

// ---- helpers ---------------------------------------------------------------

// ownedRoutes returns a route repo in which only routeID exists, owned by owner.
func ownedRoutes(owner uuid.UUID, routeID int64) *mockRouteRepo {
	return &mockRouteRepo{
		getByID: func(_ context.Context, ownerID uuid.UUID, id int64) (domain.Route, error) {
			if ownerID != owner || id != routeID {
				return domain.Route{}, domain.ErrNotFound
			}
			return domain.Route{ID: id, OwnerID: ownerID, Name: "Centro"}, nil
		},
	}
}
