// Package sqlstore persists the guild model in a SQL database through
// database/sql. SQLite, PostgreSQL (pgx) and MySQL are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/shibukawa/chansql/store"
)

// ErrUnsupportedDriver is returned for a driver name other than sqlite3, pgx or mysql.
var ErrUnsupportedDriver = errors.New("unsupported store driver")

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id VARCHAR(36) PRIMARY KEY,
		guild VARCHAR(64) NOT NULL,
		name VARCHAR(100) NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		id VARCHAR(36) PRIMARY KEY,
		category_id VARCHAR(36) NOT NULL,
		name VARCHAR(100) NOT NULL,
		topic TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id VARCHAR(36) PRIMARY KEY,
		channel_id VARCHAR(36) NOT NULL,
		content TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		guild VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		database_name VARCHAR(100) NOT NULL,
		PRIMARY KEY (guild, user_id)
	)`,
}

// Store is a store.Store on a SQL database. Table locks are held in
// process, so one Store should own a database.
type Store struct {
	store.TableLocks

	db     *sql.DB
	driver string
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects with driver and creates the tables when missing.
func Open(ctx context.Context, driver, connection string) (*Store, error) {
	switch driver {
	case "sqlite3", "pgx", "mysql":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}

	if driver == "sqlite3" {
		// in-memory databases exist per connection
		db.SetMaxOpenConns(1)
	}

	s, err := New(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// New wraps an open database and creates the tables when missing.
func New(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	s := &Store{db: db, driver: driver, now: time.Now}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create store tables: %w", err)
		}
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders for drivers that number them.
func (s *Store) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}

	var b strings.Builder

	n := 0

	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) stamp() int64 {
	return s.now().UTC().UnixNano()
}

func (s *Store) Categories(ctx context.Context, guild string) ([]store.Category, error) {
	rows, err := s.query(ctx, `SELECT id, guild, name FROM categories WHERE guild = ? ORDER BY created_at, id`, guild)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var result []store.Category

	for rows.Next() {
		var c store.Category
		if err := rows.Scan(&c.ID, &c.Guild, &c.Name); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}

		result = append(result, c)
	}

	return result, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, guild, name string) (store.Category, error) {
	c := store.Category{ID: uuid.NewString(), Guild: guild, Name: name}

	if _, err := s.exec(ctx, `INSERT INTO categories (id, guild, name, created_at) VALUES (?, ?, ?, ?)`, c.ID, guild, name, s.stamp()); err != nil {
		return store.Category{}, fmt.Errorf("create category: %w", err)
	}

	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteOne(ctx, `DELETE FROM categories WHERE id = ?`, "category", id)
}

func (s *Store) Channels(ctx context.Context, categoryID string) ([]store.Channel, error) {
	rows, err := s.query(ctx, `SELECT id, category_id, name, topic FROM channels WHERE category_id = ? ORDER BY created_at, id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var result []store.Channel

	for rows.Next() {
		var c store.Channel
		if err := rows.Scan(&c.ID, &c.CategoryID, &c.Name, &c.Topic); err != nil {
			return nil, fmt.Errorf("list channels: %w", err)
		}

		result = append(result, c)
	}

	return result, rows.Err()
}

func (s *Store) CreateChannel(ctx context.Context, categoryID, name, topic string) (store.Channel, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM categories WHERE id = ?`), categoryID).Scan(&exists); err != nil {
		return store.Channel{}, fmt.Errorf("create channel: %w", err)
	}

	if exists == 0 {
		return store.Channel{}, fmt.Errorf("%w: category %s", store.ErrNotFound, categoryID)
	}

	c := store.Channel{ID: store.TableID(uuid.NewString()), CategoryID: categoryID, Name: name, Topic: topic}

	if _, err := s.exec(ctx, `INSERT INTO channels (id, category_id, name, topic, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(c.ID), categoryID, name, topic, s.stamp()); err != nil {
		return store.Channel{}, fmt.Errorf("create channel: %w", err)
	}

	return c, nil
}

func (s *Store) DeleteChannel(ctx context.Context, id store.TableID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM messages WHERE channel_id = ?`), string(id)); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}

	result, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM channels WHERE id = ?`), string(id))
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: channel %s", store.ErrNotFound, id)
	}

	return tx.Commit()
}

func (s *Store) deleteOne(ctx context.Context, query, kind, id string) error {
	result, err := s.exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id)
	}

	return nil
}

// FetchRows reads the newest limit messages and yields them oldest first.
func (s *Store) FetchRows(ctx context.Context, table store.TableID, limit int) iter.Seq2[store.StoredRow, error] {
	return func(yield func(store.StoredRow, error) bool) {
		if _, _, err := s.ReadSchemaText(ctx, table); err != nil {
			yield(store.StoredRow{}, err)
			return
		}

		query := `SELECT id, content, created_at FROM messages WHERE channel_id = ? ORDER BY created_at DESC, id DESC`
		args := []any{string(table)}

		if limit > 0 {
			query += ` LIMIT ?`
			args = append(args, limit)
		}

		rows, err := s.query(ctx, query, args...)
		if err != nil {
			yield(store.StoredRow{}, fmt.Errorf("fetch rows: %w", err))
			return
		}

		var newestFirst []store.StoredRow

		for rows.Next() {
			var (
				row   store.StoredRow
				nanos int64
			)

			if err := rows.Scan(&row.ID, &row.Content, &nanos); err != nil {
				rows.Close()
				yield(store.StoredRow{}, fmt.Errorf("fetch rows: %w", err))

				return
			}

			row.CreatedAt = time.Unix(0, nanos).UTC()
			newestFirst = append(newestFirst, row)
		}

		err = rows.Err()
		rows.Close()

		if err != nil {
			yield(store.StoredRow{}, fmt.Errorf("fetch rows: %w", err))
			return
		}

		for i := len(newestFirst) - 1; i >= 0; i-- {
			if !yield(newestFirst[i], nil) {
				return
			}
		}
	}
}

func (s *Store) AppendRow(ctx context.Context, table store.TableID, content string) (store.StoredRow, error) {
	if _, _, err := s.ReadSchemaText(ctx, table); err != nil {
		return store.StoredRow{}, err
	}

	row := store.StoredRow{ID: uuid.NewString(), Content: content, CreatedAt: s.now().UTC()}

	if _, err := s.exec(ctx, `INSERT INTO messages (id, channel_id, content, created_at) VALUES (?, ?, ?, ?)`,
		row.ID, string(table), content, row.CreatedAt.UnixNano()); err != nil {
		return store.StoredRow{}, fmt.Errorf("append row: %w", err)
	}

	return row, nil
}

func (s *Store) ReadSchemaText(ctx context.Context, table store.TableID) (string, bool, error) {
	var topic string

	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT topic FROM channels WHERE id = ?`), string(table)).Scan(&topic)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("%w: channel %s", store.ErrNotFound, table)
	}

	if err != nil {
		return "", false, fmt.Errorf("read schema: %w", err)
	}

	return topic, topic != "", nil
}

func (s *Store) WriteSchemaText(ctx context.Context, table store.TableID, text string) error {
	// MySQL reports zero affected rows for an unchanged topic, so existence is checked first
	if _, _, err := s.ReadSchemaText(ctx, table); err != nil {
		return err
	}

	if _, err := s.exec(ctx, `UPDATE channels SET topic = ? WHERE id = ?`, text, string(table)); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}

func (s *Store) CurrentDatabase(ctx context.Context, guild, user string) (string, bool, error) {
	var name string

	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT database_name FROM sessions WHERE guild = ? AND user_id = ?`), guild, user).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("read session: %w", err)
	}

	return name, true, nil
}

func (s *Store) SetCurrentDatabase(ctx context.Context, guild, user, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM sessions WHERE guild = ? AND user_id = ?`), guild, user); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO sessions (guild, user_id, database_name) VALUES (?, ?, ?)`), guild, user, name); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return tx.Commit()
}

func (s *Store) ClearDatabase(ctx context.Context, guild, name string) error {
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE guild = ? AND database_name = ?`, guild, name); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	return nil
}
