package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"

	"github.com/shibukawa/chansql"
	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/query"
	"github.com/shibukawa/chansql/store/memstore"
)

func newTestSession() *session {
	color.NoColor = true

	s := memstore.New()
	config := &chansql.Config{
		Output: chansql.OutputConfig{Format: "table", MaxRows: 20, MaxColumnWidth: 50},
	}

	return &session{
		config: config,
		store:  s,
		engine: engine.New(s, engine.Options{}),
		sess:   engine.Session{Guild: "guild", User: "user"},
	}
}

func runAll(t *testing.T, s *session, cmds ...runner) string {
	t.Helper()

	var buf bytes.Buffer

	for _, cmd := range cmds {
		assert.NoError(t, cmd.run(context.Background(), s, &buf))
	}

	return buf.String()
}

func TestCommandsWorkflow(t *testing.T) {
	s := newTestSession()

	out := runAll(t, s,
		&CreateDBCmd{Name: "Shop Data"},
		&UseCmd{Name: "shop_data"},
		&CreateTableCmd{Name: "users", Definition: "id INT PRIMARY KEY, name VARCHAR(20)"},
		&InsertCmd{Table: "users", Values: "1, 'alice'"},
		&InsertCmd{Table: "users", Values: "2, 'bob'"},
	)
	assert.Contains(t, out, "Note: Database name 'Shop Data' was sanitized to 'shop_data'\n")
	assert.Contains(t, out, "Database 'shop_data' created successfully!\n")
	assert.Contains(t, out, "Now using database 'shop_data'\n")
	assert.Contains(t, out, "Table 'users' created successfully!\n")
	assert.Contains(t, out, "Data inserted successfully into 'users'\n")

	out = runAll(t, s, &SelectCmd{Columns: "name", Table: "users", Where: "id = 2"})
	assert.Contains(t, out, "Rows returned: 1\n")
	assert.Contains(t, out, "'bob'")
	assert.NotContains(t, out, "'alice'")

	out = runAll(t, s, &SelectCmd{Columns: "*", Table: "users", Format: "csv"})
	assert.Equal(t, "id,name\n1,alice\n2,bob\n", out)

	out = runAll(t, s, &ListTablesCmd{}, &DescribeCmd{Name: "users"}, &CurrentDBCmd{}, &ListDatabasesCmd{})
	assert.Contains(t, out, "users (")
	assert.Contains(t, out, "CREATE TABLE users")
	assert.Contains(t, out, "shop_data\n")
}

func TestCommandsReportErrors(t *testing.T) {
	s := newTestSession()

	var buf bytes.Buffer

	err := (&InsertCmd{Table: "users", Values: "1"}).run(context.Background(), s, &buf)
	assert.IsError(t, err, engine.ErrNoDatabaseSelected)

	runAll(t, s, &CreateDBCmd{Name: "db"}, &UseCmd{Name: "db"}, &CreateTableCmd{Name: "t"})

	err = (&DropDBCmd{Name: "db"}).run(context.Background(), s, &buf)
	assert.IsError(t, err, engine.ErrDatabaseNotEmpty)

	err = (&SelectCmd{Columns: "1", Table: "t", Format: "pdf"}).run(context.Background(), s, &buf)
	assert.IsError(t, err, query.ErrInvalidOutputFormat)
}

func TestFlexibleTableCommands(t *testing.T) {
	s := newTestSession()

	out := runAll(t, s,
		&CreateDBCmd{Name: "db"},
		&UseCmd{Name: "db"},
		&CreateTableCmd{Name: "notes"},
		&InsertCmd{Table: "notes", Values: "'a', 1"},
		&InsertCmd{Table: "notes", Values: "'a', 1"},
		&SelectCmd{Columns: "1, 2", Table: "notes", Distinct: true, Format: "json"},
	)
	assert.Contains(t, out, "No schema was given")
	assert.Contains(t, out, `"count": 1`)
}

func TestContextOpenUsesConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEV_GUILD_ID", "guild")
	t.Setenv("USER", "tester")

	appCtx := &Context{Config: filepath.Join(t.TempDir(), "missing.yaml"), Quiet: true}

	s, err := appCtx.open(context.Background())
	assert.NoError(t, err)

	defer s.Close()

	assert.Equal(t, engine.Session{Guild: "guild", User: "tester"}, s.sess)
	assert.Equal(t, "sqlite3", s.config.Store.Driver)
	assert.Equal(t, "chansql.db", s.config.Store.Connection)
}

func TestContextOpenKeepsDatabasesBetweenRuns(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEV_GUILD_ID", "guild")
	t.Setenv("USER", "tester")

	appCtx := &Context{Config: "chansql.yaml", Quiet: true}

	first, err := appCtx.open(context.Background())
	assert.NoError(t, err)
	runAll(t, first, &CreateDBCmd{Name: "shop"})
	assert.NoError(t, first.Close())

	second, err := appCtx.open(context.Background())
	assert.NoError(t, err)

	defer second.Close()

	out := runAll(t, second, &UseCmd{Name: "shop"})
	assert.Contains(t, out, "Now using database 'shop'\n")
}

func TestContextOpenRequiresGuild(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEV_GUILD_ID", "")

	appCtx := &Context{Config: filepath.Join(t.TempDir(), "missing.yaml")}

	_, err := appCtx.open(context.Background())
	assert.IsError(t, err, chansql.ErrGuildRequired)
}
