package credential

import (
	"context"
	"errors"
	"log/slog"
)

type Refresher interface {
	Refresh(ctx context.Context, c *Credential) (*Credential, error)
}

type Authorizer interface {
	Authorize(ctx context.Context) (*Credential, error)
}

// Manager owns the credential lifecycle: load, refresh, interactive consent
// and persistence.
type Manager struct {
	store      Store
	refresher  Refresher
	authorizer Authorizer
}

func NewManager(store Store, refresher Refresher, authorizer Authorizer) *Manager {
	return &Manager{
		store:      store,
		refresher:  refresher,
		authorizer: authorizer,
	}
}

// Acquire returns a usable credential or nil when none can be obtained.
// Failures are logged, never returned.
func (m *Manager) Acquire(ctx context.Context) *Credential {
	stored := m.load(ctx)

	if stored.Valid() {
		slog.Debug("Using stored credential", "location", m.store.Location())
		return stored
	}

	if stored.CanRefresh() {
		refreshed, err := m.refresher.Refresh(ctx, stored)
		if err == nil && refreshed != nil {
			slog.Info("Refreshed credential")
			m.persist(ctx, refreshed)
			return refreshed
		}
		slog.Warn("Credential refresh failed, falling back to authorization", "error", err)
	}

	return m.Authorize(ctx)
}

// Authorize runs the interactive flow unconditionally and persists the result.
func (m *Manager) Authorize(ctx context.Context) *Credential {
	cred, err := m.authorizer.Authorize(ctx)
	if err != nil {
		slog.Error("Authorization failed", "error", err)
		return nil
	}
	if cred == nil {
		slog.Error("Authorization returned no credential")
		return nil
	}

	slog.Info("Authorization complete")
	m.persist(ctx, cred)
	return cred
}

type Status struct {
	Location  string
	Stored    bool
	Valid     bool
	Renewable bool
	LoadError error
}

func (m *Manager) Status(ctx context.Context) Status {
	st := Status{Location: m.store.Location()}

	cred, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			st.LoadError = err
		}
		return st
	}

	st.Stored = true
	st.Valid = cred.Valid()
	st.Renewable = cred.CanRefresh()
	return st
}

func (m *Manager) load(ctx context.Context) *Credential {
	cred, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		slog.Debug("No stored credential", "location", m.store.Location())
		return nil
	case err != nil:
		slog.Warn("Ignoring unreadable credential", "location", m.store.Location(), "error", err)
		return nil
	}
	return cred
}

func (m *Manager) persist(ctx context.Context, c *Credential) {
	if err := m.store.Save(ctx, c); err != nil {
		slog.Warn("Failed to save credential", "location", m.store.Location(), "error", err)
		return
	}
	slog.Debug("Saved credential", "location", m.store.Location())
}
