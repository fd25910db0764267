package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/repo"
)

func TestRouteRepo_Create(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)

	got, err := r.Routes.Create(context.Background(), domain.Route{
		OwnerID:     owner,
		Name:        "Centro",
		Description: "Old town walk",
	})

	require.NoError(t, err)
	assert.NotZero(t, got.ID, "ID should be DB-generated")
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, "Centro", got.Name)
	assert.Equal(t, "Old town walk", got.Description)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestRouteRepo_Create_EmptyDescriptionRoundTrips(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)
	created := mustCreateRoute(t, r.Routes, owner, "Centro")

	var isNull bool
	err := tx.QueryRow(context.Background(),
		`SELECT description IS NULL FROM routes WHERE id = $1`, created.ID).Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull, "empty description should be stored as NULL")

	got, err := r.Routes.GetByID(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)
}

func TestRouteRepo_Create_DuplicateName(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)
	mustCreateRoute(t, r.Routes, owner, "Centro")

	err := inSavepoint(t, tx, func(r repo.Repos) error {
		_, err := r.Routes.Create(context.Background(), domain.Route{OwnerID: owner, Name: "Centro"})
		return err
	})

	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// The same name is fine for a different owner.
	other := mustCreateUser(t, tx)
	mustCreateRoute(t, r.Routes, other, "Centro")
}

func TestRouteRepo_Create_NameCheckConstraint(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)

	_, err := r.Routes.Create(context.Background(), domain.Route{OwnerID: owner, Name: "A"})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRouteRepo_GetByID_OtherOwner(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)
	stranger := mustCreateUser(t, tx)
	route := mustCreateRoute(t, r.Routes, owner, "Centro")

	_, err := r.Routes.GetByID(context.Background(), stranger, route.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteRepo_GetByID_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	_, err := r.Routes.GetByID(context.Background(), uuid.New(), 1<<62)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteRepo_List(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)
	first := mustCreateRoute(t, r.Routes, owner, "Centro")
	second := mustCreateRoute(t, r.Routes, owner, "Puerto")
	mustCreateRoute(t, r.Routes, mustCreateUser(t, tx), "Someone else's")

	got, err := r.Routes.List(context.Background(), owner)

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Same transaction, same created_at: the newer ID comes first.
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestRouteRepo_List_Empty(t *testing.T) {
	r, tx := newTestRepos(t)

	got, err := r.Routes.List(context.Background(), mustCreateUser(t, tx))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRouteRepo_NameTaken_IgnoresCase(t *testing.T) {
	r, tx := newTestRepos(t)
	owner := mustCreateUser(t, tx)
	mustCreateRoute(t, r.Routes, owner, "Centro")
	ctx := context.Background()

	taken, err := r.Routes.NameTaken(ctx, owner, "CENTRO")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.Routes.NameTaken(ctx, owner, "Puerto")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRouteRepo_Delete_Cascades(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, tx)
	route := mustCreateRoute(t, r.Routes, owner, "Centro")
	a := mustCreateStop(t, r.Stops, route.ID, "Plaza")
	b := mustCreateStop(t, r.Stops, route.ID, "Catedral")
	mustConnect(t, r.Connections, a, b, 5)
	mustConnect(t, r.Connections, b, a, 5)

	require.NoError(t, r.Routes.Delete(ctx, owner, route.ID))

	_, err := r.Routes.GetByID(ctx, owner, route.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var stops, conns int
	require.NoError(t, tx.QueryRow(ctx, `SELECT count(*) FROM stops WHERE route_id = $1`, route.ID).Scan(&stops))
	require.NoError(t, tx.QueryRow(ctx,
		`SELECT count(*) FROM connections WHERE origin_stop_id = ANY($1)`, []int64{a.ID, b.ID}).Scan(&conns))
	assert.Zero(t, stops)
	assert.Zero(t, conns)
}

func TestRouteRepo_Delete_OtherOwnerLeavesRoute(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, tx)
	route := mustCreateRoute(t, r.Routes, owner, "Centro")

	err := r.Routes.Delete(ctx, mustCreateUser(t, tx), route.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Routes.GetByID(ctx, owner, route.ID)
	assert.NoError(t, err)
}

func TestRouteRepo_Delete_OwnerCascade(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, tx)
	route := mustCreateRoute(t, r.Routes, owner, "Centro")

	_, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, owner)
	require.NoError(t, err)

	_, err = r.Routes.GetByID(ctx, owner, route.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouteRepo_Stats(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, tx)
	mustCreateRoute(t, r.Routes, owner, "Centro")
	old := mustCreateRoute(t, r.Routes, owner, "Puerto")
	older := mustCreateRoute(t, r.Routes, owner, "Sierra")

	_, err := tx.Exec(ctx, `UPDATE routes SET created_at = now() - interval '10 days' WHERE id = $1`, old.ID)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `UPDATE routes SET created_at = now() - interval '60 days' WHERE id = $1`, older.ID)
	require.NoError(t, err)

	got, err := r.Routes.Stats(ctx, owner)

	require.NoError(t, err)
	assert.Equal(t, domain.RouteStats{Total: 3, LastWeek: 1, LastMonth: 2}, got)
}
