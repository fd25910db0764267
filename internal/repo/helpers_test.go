package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/repo"
	"github.com/pkordes/tourgraph/testutil"
)

// newTestTx opens a transaction that is rolled back when the test finishes,
// so no test leaves rows behind.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// newTestRepos returns repositories bound to a rolled-back test transaction,
// plus the transaction for raw setup SQL.
func newTestRepos(t *testing.T) (repo.Repos, pgx.Tx) {
	t.Helper()
	tx := newTestTx(t)
	return repo.Repos{
		Routes:      repo.NewRouteRepo(tx),
		Stops:       repo.NewStopRepo(tx),
		Connections: repo.NewConnectionRepo(tx),
	}, tx
}

// mustCreateUser inserts a user row and returns its ID.
func mustCreateUser(t *testing.T, tx pgx.Tx) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := tx.QueryRow(context.Background(),
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		"Test User", uuid.NewString()+"@example.test",
	).Scan(&id)
	require.NoError(t, err, "create user")
	return id
}

func mustCreateRoute(t *testing.T, r repo.RouteRepo, owner uuid.UUID, name string) domain.Route {
	t.Helper()
	route, err := r.Create(context.Background(), domain.Route{OwnerID: owner, Name: name})
	require.NoError(t, err, "create route %q", name)
	return route
}

func mustCreateStop(t *testing.T, r repo.StopRepo, routeID int64, name string) domain.Stop {
	t.Helper()
	stop, err := r.Create(context.Background(), domain.Stop{RouteID: routeID, Name: name})
	require.NoError(t, err, "create stop %q", name)
	return stop
}

func mustConnect(t *testing.T, r repo.ConnectionRepo, from, to domain.Stop, distance float64) domain.Connection {
	t.Helper()
	c, err := r.Create(context.Background(), domain.Connection{
		RouteID:       from.RouteID,
		OriginID:      from.ID,
		DestinationID: to.ID,
		Distance:      distance,
	})
	require.NoError(t, err, "connect %s→%s", from.Name, to.Name)
	return c
}

// inSavepoint runs fn inside a savepoint of tx so a statement that fails on
// purpose does not abort the enclosing test transaction.
func inSavepoint(t *testing.T, tx pgx.Tx, fn func(r repo.Repos) error) error {
	t.Helper()
	return repo.NewStore(tx).InTx(context.Background(), fn)
}
