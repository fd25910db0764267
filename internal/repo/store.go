// Package repo contains all database access logic for the route graph.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL, type mapping, and translation of
// driver errors into domain sentinels.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/tourgraph/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test; Begin on a
// pgx.Tx opens a savepoint, so Store.InTx nests cleanly inside it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos bundles the repositories bound to a single transaction.
type Repos struct {
	Routes      RouteRepo
	Stops       StopRepo
	Connections ConnectionRepo
}

// Transactor runs a unit of work inside one database transaction.
// The service layer depends on this interface so it can be unit-tested with
// in-memory fakes.
type Transactor interface {
	// InTx calls fn with repositories bound to a fresh transaction. The
	// transaction commits when fn returns nil and rolls back otherwise,
	// including when fn panics.
	InTx(ctx context.Context, fn func(r Repos) error) error
}

// Store is the Postgres implementation of Transactor.
type Store struct {
	db db
}

// NewStore constructs a Store backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewStore(db db) *Store {
	return &Store{db: db}
}

// InTx implements Transactor.
func (s *Store) InTx(ctx context.Context, fn func(r Repos) error) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		fnErr = fn(newRepos(tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: %w", classify(err))
	}
	return nil
}

func newRepos(db db) Repos {
	return Repos{
		Routes:      NewRouteRepo(db),
		Stops:       NewStopRepo(db),
		Connections: NewConnectionRepo(db),
	}
}

// Postgres SQLSTATE codes translated into domain sentinels.
const (
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeForeignKeyViolation = "23503"

	// classDataException covers malformed values such as invalid byte
	// sequences (22021) or out-of-range numbers (22003).
	classDataException = "22"
)

const selfLoopConstraint = "connections_no_self_loop"

// classify maps a driver error onto the domain error taxonomy. Errors that
// already carry a domain sentinel and context cancellations pass through
// untouched; anything else the store reports is ErrStoreUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
		case codeCheckViolation:
			if pgErr.ConstraintName == selfLoopConstraint {
				return domain.ErrSelfLoop
			}
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			// The parent row vanished under a concurrent delete.
			return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
		}
		if strings.HasPrefix(pgErr.Code, classDataException) {
			return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scanX
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// collect drains rows through scan. It always returns a non-nil slice so
// callers can tell "no rows" apart from a failed query.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
