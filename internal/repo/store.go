// Package repo contains all database access logic for the TravelMate API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here: only SQL and the transaction boundary.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a db that can also open transactions.
// *pgxpool.Pool satisfies it in production, pgxmock.PgxPoolIface in unit tests.
type Pool interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos bundles the repositories that share one connection or transaction.
type Repos struct {
	Trips             TripRepo
	Itinerary         ItineraryRepo
	SavedDestinations SavedDestinationRepo
}

// NewRepos builds every repository on top of the same db handle.
func NewRepos(db db) Repos {
	return Repos{
		Trips:             NewTripRepo(db),
		Itinerary:         NewItineraryRepo(db),
		SavedDestinations: NewSavedDestinationRepo(db),
	}
}

// TxStore hands out repositories either bound to the pool (one statement per
// call) or bound to a single transaction.
// Services depend on this interface so they can be tested with a fake.
type TxStore interface {
	// Repos returns repositories that run each statement in its own implicit
	// transaction. Use for reads and single-statement writes.
	Repos() Repos

	// WithinTx runs fn with repositories bound to one transaction. The
	// transaction commits if fn returns nil and rolls back otherwise, including
	// when fn panics or ctx is cancelled.
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// Store is the Postgres implementation of TxStore.
type Store struct {
	pool   Pool
	logger *slog.Logger
}

// NewStore constructs a Store over the given pool.
func NewStore(pool Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}
}

// Repos returns pool-bound repositories.
func (s *Store) Repos() Repos {
	return NewRepos(s.pool)
}

// WithinTx begins a transaction, runs fn, and commits or rolls back.
// The connection is returned to the pool on every path.
//
// Rollback uses a context detached from ctx's cancellation so that an
// abandoned request still tells the server to discard its work.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) (err error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Store.WithinTx: begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			s.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			s.rollback(ctx, tx)
			return
		}
		if cerr := tx.Commit(ctx); cerr != nil {
			err = fmt.Errorf("repo.Store.WithinTx: commit: %w", cerr)
		}
	}()

	return fn(ctx, NewRepos(tx))
}

func (s *Store) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.ErrorContext(ctx, "transaction rollback failed", "error", err)
	}
}
