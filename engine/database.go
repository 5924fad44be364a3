package engine

import (
	"context"
	"fmt"
	"strings"
)

// CreateDatabase creates the category db_<name>.
func (e *Engine) CreateDatabase(ctx context.Context, sess Session, requested string) (Name, error) {
	e.log.Info("CREATE DATABASE command executed: name=%s, guild=%s", requested, sess.Guild)

	name, err := sanitizeName("database", requested)
	if err != nil {
		return Name{}, err
	}

	_, found, err := e.findDatabase(ctx, sess.Guild, name.Value)
	if err != nil {
		return Name{}, err
	}

	if found {
		return Name{}, fmt.Errorf("%w: %s", ErrDatabaseExists, name.Value)
	}

	if _, err := e.store.CreateCategory(ctx, sess.Guild, databasePrefix+name.Value); err != nil {
		return Name{}, fmt.Errorf("create database %s: %w", name.Value, err)
	}

	return name, nil
}

// DropDatabase deletes an empty database and forgets sessions using it.
func (e *Engine) DropDatabase(ctx context.Context, sess Session, requested string) (Name, error) {
	e.log.Info("DROP DATABASE command executed: name=%s, guild=%s", requested, sess.Guild)

	name, err := sanitizeName("database", requested)
	if err != nil {
		return Name{}, err
	}

	category, found, err := e.findDatabase(ctx, sess.Guild, name.Value)
	if err != nil {
		return Name{}, err
	}

	if !found {
		return Name{}, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name.Value)
	}

	channels, err := e.store.Channels(ctx, category.ID)
	if err != nil {
		return Name{}, err
	}

	if len(channels) > 0 {
		return Name{}, fmt.Errorf("%w: %s still has %d table(s)", ErrDatabaseNotEmpty, name.Value, len(channels))
	}

	if err := e.store.DeleteCategory(ctx, category.ID); err != nil {
		return Name{}, fmt.Errorf("drop database %s: %w", name.Value, err)
	}

	if err := e.store.ClearDatabase(ctx, sess.Guild, name.Value); err != nil {
		return Name{}, err
	}

	return name, nil
}

// Use selects the database for the session's user.
func (e *Engine) Use(ctx context.Context, sess Session, requested string) (Name, error) {
	e.log.Info("USE command executed for database: %s by user: %s", requested, sess.User)

	name, err := sanitizeName("database", requested)
	if err != nil {
		return Name{}, err
	}

	_, found, err := e.findDatabase(ctx, sess.Guild, name.Value)
	if err != nil {
		return Name{}, err
	}

	if !found {
		return Name{}, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name.Value)
	}

	if err := e.store.SetCurrentDatabase(ctx, sess.Guild, sess.User, name.Value); err != nil {
		return Name{}, err
	}

	return name, nil
}

// ListDatabases returns the databases of the guild without their prefix.
func (e *Engine) ListDatabases(ctx context.Context, sess Session) ([]string, error) {
	categories, err := e.store.Categories(ctx, sess.Guild)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, c := range categories {
		if name, ok := strings.CutPrefix(c.Name, databasePrefix); ok {
			names = append(names, name)
		}
	}

	return names, nil
}
