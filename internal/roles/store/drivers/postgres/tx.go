package postgres

import (
	"context"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/aussiebroadwan/roles/internal/roles/store"
)

// txStore binds the repositories to one pgx transaction. pgx wants a context
// on commit and rollback, so the one the transaction was started with is kept.
type txStore struct {
	ctx     context.Context
	tx      pgx.Tx
	builder squirrel.StatementBuilderType
}

func newTx(ctx context.Context, tx pgx.Tx, builder squirrel.StatementBuilderType) *txStore {
	return &txStore{ctx: ctx, tx: tx, builder: builder}
}

func (t *txStore) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *txStore) Rollback() error { return t.tx.Rollback(t.ctx) }

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, pgx.ErrTxClosed
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.ErrTxClosed
}

func (t *txStore) Roles() store.Roles {
	return &rolesRepo{exec: t.tx, builder: t.builder}
}

func (t *txStore) Memberships() store.Memberships {
	return &membershipsRepo{exec: t.tx, builder: t.builder}
}

func (t *txStore) ApplyMigrations() error { return nil }
