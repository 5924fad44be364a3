// Package store defines the storage contracts the engine runs on. A
// database is a category in a guild, a table is a channel inside that
// category whose topic carries the schema, and each row is one message.
package store

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"
)

// ErrNotFound is returned when a category or channel does not exist.
var ErrNotFound = errors.New("not found")

// TableID identifies a channel. It is opaque to callers.
type TableID string

// Category groups the channels of one database.
type Category struct {
	ID    string
	Guild string
	Name  string
}

// Channel holds the rows of one table.
type Channel struct {
	ID         TableID
	CategoryID string
	Name       string
	Topic      string
}

// StoredRow is one message: the raw row block and when it was written.
type StoredRow struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// RowStore appends and reads the raw blocks of a table.
type RowStore interface {
	// FetchRows yields at most limit of the most recent rows, oldest first.
	// A limit of zero or less yields every row.
	FetchRows(ctx context.Context, table TableID, limit int) iter.Seq2[StoredRow, error]
	AppendRow(ctx context.Context, table TableID, content string) (StoredRow, error)
	// ReadSchemaText returns the topic; ok is false when the topic is empty.
	ReadSchemaText(ctx context.Context, table TableID) (text string, ok bool, err error)
	WriteSchemaText(ctx context.Context, table TableID, text string) error
	// LockTable serializes writers of one table until unlock is called.
	LockTable(table TableID) (unlock func())
}

// Catalog manages categories and channels.
type Catalog interface {
	Categories(ctx context.Context, guild string) ([]Category, error)
	CreateCategory(ctx context.Context, guild, name string) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	Channels(ctx context.Context, categoryID string) ([]Channel, error)
	CreateChannel(ctx context.Context, categoryID, name, topic string) (Channel, error)
	DeleteChannel(ctx context.Context, id TableID) error
}

// SessionStore remembers the current database of each user in a guild.
type SessionStore interface {
	CurrentDatabase(ctx context.Context, guild, user string) (name string, ok bool, err error)
	SetCurrentDatabase(ctx context.Context, guild, user, name string) error
	// ClearDatabase forgets every session in guild that points at name.
	ClearDatabase(ctx context.Context, guild, name string) error
}

// Store is the full backend.
type Store interface {
	RowStore
	Catalog
	SessionStore
	Close() error
}

// TableLocks hands out one mutex per table. The zero value is ready to use.
type TableLocks struct {
	mu    sync.Mutex
	locks map[TableID]*sync.Mutex
}

// LockTable blocks until the table's mutex is held.
func (l *TableLocks) LockTable(table TableID) func() {
	l.mu.Lock()

	if l.locks == nil {
		l.locks = make(map[TableID]*sync.Mutex)
	}

	m, ok := l.locks[table]
	if !ok {
		m = &sync.Mutex{}
		l.locks[table] = m
	}

	l.mu.Unlock()

	m.Lock()

	return m.Unlock
}

// Newest keeps the last limit rows of rows, which are ordered oldest first.
func Newest(rows []StoredRow, limit int) []StoredRow {
	if limit > 0 && len(rows) > limit {
		return rows[len(rows)-limit:]
	}

	return rows
}
