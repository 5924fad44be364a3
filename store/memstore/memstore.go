// Package memstore keeps a guild model in memory. It backs tests and the
// "memory" driver.
package memstore

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shibukawa/chansql/store"
)

type sessionKey struct {
	guild, user string
}

// Store is an in-memory store.Store.
type Store struct {
	store.TableLocks

	mu         sync.RWMutex
	categories []store.Category
	channels   []store.Channel
	messages   map[store.TableID][]store.StoredRow
	sessions   map[sessionKey]string
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		messages: make(map[store.TableID][]store.StoredRow),
		sessions: make(map[sessionKey]string),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for message timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Categories(ctx context.Context, guild string) ([]store.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []store.Category

	for _, c := range s.categories {
		if c.Guild == guild {
			result = append(result, c)
		}
	}

	return result, nil
}

func (s *Store) CreateCategory(ctx context.Context, guild, name string) (store.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := store.Category{ID: uuid.NewString(), Guild: guild, Name: name}
	s.categories = append(s.categories, c)

	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c store.Category) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: category %s", store.ErrNotFound, id)
	}

	s.categories = slices.Delete(s.categories, i, i+1)

	return nil
}

func (s *Store) Channels(ctx context.Context, categoryID string) ([]store.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []store.Channel

	for _, c := range s.channels {
		if c.CategoryID == categoryID {
			result = append(result, c)
		}
	}

	return result, nil
}

func (s *Store) CreateChannel(ctx context.Context, categoryID, name, topic string) (store.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.ContainsFunc(s.categories, func(c store.Category) bool { return c.ID == categoryID }) {
		return store.Channel{}, fmt.Errorf("%w: category %s", store.ErrNotFound, categoryID)
	}

	c := store.Channel{ID: store.TableID(uuid.NewString()), CategoryID: categoryID, Name: name, Topic: topic}
	s.channels = append(s.channels, c)

	return c, nil
}

func (s *Store) DeleteChannel(ctx context.Context, id store.TableID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.channelIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: channel %s", store.ErrNotFound, id)
	}

	s.channels = slices.Delete(s.channels, i, i+1)
	delete(s.messages, id)

	return nil
}

func (s *Store) channelIndex(id store.TableID) int {
	return slices.IndexFunc(s.channels, func(c store.Channel) bool { return c.ID == id })
}

// FetchRows snapshots the rows before yielding, so callers may append
// while iterating.
func (s *Store) FetchRows(ctx context.Context, table store.TableID, limit int) iter.Seq2[store.StoredRow, error] {
	return func(yield func(store.StoredRow, error) bool) {
		s.mu.RLock()

		if s.channelIndex(table) < 0 {
			s.mu.RUnlock()
			yield(store.StoredRow{}, fmt.Errorf("%w: channel %s", store.ErrNotFound, table))

			return
		}

		rows := slices.Clone(store.Newest(s.messages[table], limit))
		s.mu.RUnlock()

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				yield(store.StoredRow{}, err)
				return
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}

func (s *Store) AppendRow(ctx context.Context, table store.TableID, content string) (store.StoredRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channelIndex(table) < 0 {
		return store.StoredRow{}, fmt.Errorf("%w: channel %s", store.ErrNotFound, table)
	}

	row := store.StoredRow{ID: uuid.NewString(), Content: content, CreatedAt: s.now().UTC()}
	s.messages[table] = append(s.messages[table], row)

	return row, nil
}

func (s *Store) ReadSchemaText(ctx context.Context, table store.TableID) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.channelIndex(table)
	if i < 0 {
		return "", false, fmt.Errorf("%w: channel %s", store.ErrNotFound, table)
	}

	topic := s.channels[i].Topic

	return topic, topic != "", nil
}

func (s *Store) WriteSchemaText(ctx context.Context, table store.TableID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.channelIndex(table)
	if i < 0 {
		return fmt.Errorf("%w: channel %s", store.ErrNotFound, table)
	}

	s.channels[i].Topic = text

	return nil
}

func (s *Store) CurrentDatabase(ctx context.Context, guild, user string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.sessions[sessionKey{guild, user}]

	return name, ok, nil
}

func (s *Store) SetCurrentDatabase(ctx context.Context, guild, user, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionKey{guild, user}] = name

	return nil
}

func (s *Store) ClearDatabase(ctx context.Context, guild, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, current := range s.sessions {
		if key.guild == guild && current == name {
			delete(s.sessions, key)
		}
	}

	return nil
}
