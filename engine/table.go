package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/chansql/schema"
)

// TableInfo describes a table.
type TableInfo struct {
	Name   string
	Schema schema.Schema
}

// CreateTableSQL renders the table definition. Flexible tables have no columns.
func (t TableInfo) CreateTableSQL() string {
	if t.Schema.IsFlexible() {
		return "CREATE TABLE " + t.Name + " ()"
	}

	return t.Schema.CreateTableSQL(t.Name)
}

// CreateTable creates the channel table_<name> in the current database.
// An empty definition creates a flexible table.
func (e *Engine) CreateTable(ctx context.Context, sess Session, requested, definition string) (Name, schema.Schema, error) {
	e.log.Info("CREATE TABLE command executed: name=%s, schema=%s", requested, definition)

	_, category, err := e.currentDatabase(ctx, sess)
	if err != nil {
		return Name{}, nil, err
	}

	name, err := sanitizeName("table", requested)
	if err != nil {
		return Name{}, nil, err
	}

	s, err := schema.Parse(definition)
	if err != nil {
		return Name{}, nil, err
	}

	channels, err := e.store.Channels(ctx, category.ID)
	if err != nil {
		return Name{}, nil, err
	}

	if _, found := findChannel(channels, name.Value); found {
		return Name{}, nil, fmt.Errorf("%w: %s", ErrTableExists, name.Value)
	}

	if _, err := e.store.CreateChannel(ctx, category.ID, tablePrefix+name.Value, s.String()); err != nil {
		return Name{}, nil, fmt.Errorf("create table %s: %w", name.Value, err)
	}

	return name, s, nil
}

// DropTable deletes a table and its rows.
func (e *Engine) DropTable(ctx context.Context, sess Session, requested string) (Name, error) {
	e.log.Info("DROP TABLE command executed: name=%s", requested)

	t, err := e.openTable(ctx, sess, requested)
	if err != nil {
		return Name{}, err
	}

	if err := e.store.DeleteChannel(ctx, t.channel.ID); err != nil {
		return Name{}, fmt.Errorf("drop table %s: %w", t.name, err)
	}

	_, changed := Sanitize(requested)

	return Name{Value: t.name, Changed: changed}, nil
}

// Describe returns the schema of a table.
func (e *Engine) Describe(ctx context.Context, sess Session, requested string) (TableInfo, error) {
	t, err := e.openTable(ctx, sess, requested)
	if err != nil {
		return TableInfo{}, err
	}

	return TableInfo{Name: t.name, Schema: t.schema}, nil
}

// ListTables returns the tables of the current database.
func (e *Engine) ListTables(ctx context.Context, sess Session) ([]TableInfo, error) {
	_, category, err := e.currentDatabase(ctx, sess)
	if err != nil {
		return nil, err
	}

	channels, err := e.store.Channels(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	var tables []TableInfo

	for _, c := range channels {
		name, ok := strings.CutPrefix(c.Name, tablePrefix)
		if !ok {
			continue
		}

		info := TableInfo{Name: name}

		if strings.TrimSpace(c.Topic) != "" {
			s, err := schema.Decode(c.Topic)
			if err != nil {
				e.log.Warn("table %s has an unreadable schema: %v", name, err)
			} else {
				info.Schema = s
			}
		}

		tables = append(tables, info)
	}

	return tables, nil
}
