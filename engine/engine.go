// Package engine runs the SQL-like commands on a store: databases are
// categories named db_<name>, tables are channels named table_<name> whose
// topic holds the schema, and rows are messages.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shibukawa/chansql/logging"
	"github.com/shibukawa/chansql/schema"
	"github.com/shibukawa/chansql/store"
)

// DefaultFetchLimit is the number of most recent rows a SELECT reads.
const DefaultFetchLimit = 100

// Session identifies who runs a command and where.
type Session struct {
	Guild string
	User  string
}

// Options configures an Engine.
type Options struct {
	// FetchLimit caps the rows read by SELECT. Zero means DefaultFetchLimit.
	FetchLimit int
	Logger     *logging.Logger
}

// Engine executes commands against a store.Store.
type Engine struct {
	store      store.Store
	log        *logging.Logger
	fetchLimit int
	now        func() time.Time
}

// New returns an engine on s.
func New(s store.Store, opts Options) *Engine {
	e := &Engine{
		store:      s,
		log:        opts.Logger,
		fetchLimit: opts.FetchLimit,
		now:        time.Now,
	}

	if e.log == nil {
		e.log = logging.Discard()
	}

	if e.fetchLimit <= 0 {
		e.fetchLimit = DefaultFetchLimit
	}

	return e
}

// table is a resolved table with its decoded schema.
type table struct {
	name    string
	channel store.Channel
	schema  schema.Schema
}

func (e *Engine) findDatabase(ctx context.Context, guild, name string) (store.Category, bool, error) {
	categories, err := e.store.Categories(ctx, guild)
	if err != nil {
		return store.Category{}, false, err
	}

	for _, c := range categories {
		if c.Name == databasePrefix+name {
			return c, true, nil
		}
	}

	return store.Category{}, false, nil
}

// currentDatabase resolves the session's database.
func (e *Engine) currentDatabase(ctx context.Context, sess Session) (string, store.Category, error) {
	name, ok, err := e.store.CurrentDatabase(ctx, sess.Guild, sess.User)
	if err != nil {
		return "", store.Category{}, err
	}

	if !ok {
		return "", store.Category{}, fmt.Errorf("%w: run USE <database> first", ErrNoDatabaseSelected)
	}

	category, found, err := e.findDatabase(ctx, sess.Guild, name)
	if err != nil {
		return "", store.Category{}, err
	}

	if !found {
		return "", store.Category{}, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}

	return name, category, nil
}

func findChannel(channels []store.Channel, name string) (store.Channel, bool) {
	for _, c := range channels {
		if c.Name == tablePrefix+name {
			return c, true
		}
	}

	return store.Channel{}, false
}

// openTable resolves a table of the current database and decodes its schema.
func (e *Engine) openTable(ctx context.Context, sess Session, requested string) (table, error) {
	database, category, err := e.currentDatabase(ctx, sess)
	if err != nil {
		return table{}, err
	}

	name, err := sanitizeName("table", requested)
	if err != nil {
		return table{}, err
	}

	channels, err := e.store.Channels(ctx, category.ID)
	if err != nil {
		return table{}, err
	}

	channel, found := findChannel(channels, name.Value)
	if !found {
		return table{}, fmt.Errorf("%w: %s in database %s", ErrTableNotFound, requested, database)
	}

	text, ok, err := e.store.ReadSchemaText(ctx, channel.ID)
	if err != nil {
		return table{}, err
	}

	t := table{name: name.Value, channel: channel}

	if ok && strings.TrimSpace(text) != "" {
		t.schema, err = schema.Decode(text)
		if err != nil {
			return table{}, fmt.Errorf("table %s has an unreadable schema: %w", name.Value, err)
		}
	}

	return t, nil
}

// CurrentDatabase returns the database selected by USE.
func (e *Engine) CurrentDatabase(ctx context.Context, sess Session) (string, error) {
	name, _, err := e.currentDatabase(ctx, sess)
	return name, err
}
