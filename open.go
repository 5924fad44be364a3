package chansql

import (
	"context"

	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/store"
	"github.com/shibukawa/chansql/store/memstore"
	"github.com/shibukawa/chansql/store/sqlstore"
)

// OpenStore opens the configured message store. The memory store starts
// empty on every call.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	if cfg.Store.IsMemory() {
		return memstore.New(), nil
	}

	return sqlstore.Open(ctx, cfg.Store.Driver, cfg.Store.Connection)
}

// Session returns the engine session of the configured guild and user.
func (c *Config) Session() (engine.Session, error) {
	if c.Guild == "" {
		return engine.Session{}, ErrGuildRequired
	}

	if c.User == "" {
		return engine.Session{}, ErrUserRequired
	}

	return engine.Session{Guild: c.Guild, User: c.User}, nil
}
