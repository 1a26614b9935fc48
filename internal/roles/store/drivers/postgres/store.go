package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aussiebroadwan/roles/internal/roles/store"
)

// SQLSTATE codes mapped onto store sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// executor is the query surface shared by the pool and pgx.Tx.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the subset of *pgxpool.Pool the store depends on.
type Pool interface {
	executor
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	pool    Pool
	dsn     string
	builder squirrel.StatementBuilderType
}

// NewStore connects a pgx pool to dsn and verifies the connection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := NewStoreWithPool(pool)
	s.dsn = dsn
	return s, nil
}

// NewStoreWithPool wraps an existing pool. Stores built this way cannot apply
// migrations because they have no DSN to open a migration connection with.
func NewStoreWithPool(pool Pool) *Store {
	return &Store{
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return newTx(ctx, tx, s.builder), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Returns pgx.ErrTxClosed after a commit, which is fine to drop
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Roles() store.Roles {
	return &rolesRepo{exec: s.pool, builder: s.builder}
}

func (s *Store) Memberships() store.Memberships {
	return &membershipsRepo{exec: s.pool, builder: s.builder}
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %w", store.ErrAlreadyExists, err)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %w", store.ErrConstraint, err)
	default:
		return err
	}
}

// expectOne turns a command tag into ErrNotFound when no row matched.
func expectOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryNames(ctx context.Context, exec executor, q squirrel.SelectBuilder) ([]string, error) {
	stmt, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select sql: %w", err)
	}

	rows, err := exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func queryCount(ctx context.Context, exec executor, q squirrel.SelectBuilder) (int64, error) {
	stmt, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count sql: %w", err)
	}

	var count int64
	if err := exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
