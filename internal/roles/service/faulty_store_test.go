package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/roles/internal/roles/domain"
	"github.com/aussiebroadwan/roles/internal/roles/store"
)

var errInjected = errors.New("injected failure")

// faultyStore wraps a real store and injects failures inside transactions,
// standing in for a crash or abort halfway through a multi-row write.
type faultyStore struct {
	store.Store

	failAfterWrites int    // fail once this many membership writes succeeded; 0 never fails
	failRoleDelete  bool   // fail every transactional role delete
	beforeTx        func() // runs just before the transaction opens

	writes int
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if f.beforeTx != nil {
		f.beforeTx()
	}
	return f.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&faultyTx{txBase: tx, f: f})
	})
}

func (f *faultyStore) write() error {
	if f.failAfterWrites > 0 && f.writes >= f.failAfterWrites {
		return errInjected
	}
	f.writes++
	return nil
}

// txBase lets faultyTx embed store.Tx without the field shadowing the Tx method.
type txBase = store.Tx

type faultyTx struct {
	txBase
	f *faultyStore
}

func (t *faultyTx) Roles() store.Roles {
	return &faultyRoles{Roles: t.txBase.Roles(), f: t.f}
}

func (t *faultyTx) Memberships() store.Memberships {
	return &faultyMemberships{Memberships: t.txBase.Memberships(), f: t.f}
}

type faultyRoles struct {
	store.Roles
	f *faultyStore
}

func (r *faultyRoles) DeleteRole(ctx context.Context, application, name string) error {
	if r.f.failRoleDelete {
		return errInjected
	}
	return r.Roles.DeleteRole(ctx, application, name)
}

type faultyMemberships struct {
	store.Memberships
	f *faultyStore
}

func (m *faultyMemberships) AddMembership(ctx context.Context, ms domain.Membership) error {
	if err := m.f.write(); err != nil {
		return err
	}
	return m.Memberships.AddMembership(ctx, ms)
}

func (m *faultyMemberships) DeleteMembership(ctx context.Context, application, userName, roleName string) error {
	if err := m.f.write(); err != nil {
		return err
	}
	return m.Memberships.DeleteMembership(ctx, application, userName, roleName)
}

func (m *faultyMemberships) DeleteRoleMemberships(ctx context.Context, application, roleName string) (int64, error) {
	if err := m.f.write(); err != nil {
		return 0, err
	}
	return m.Memberships.DeleteRoleMemberships(ctx, application, roleName)
}
