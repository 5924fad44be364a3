package chansql

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/store/memstore"
	"github.com/shibukawa/chansql/store/sqlstore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "chansql.yaml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	assert.NoError(t, err)

	return configPath
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("DEV_GUILD_ID", "guild-1")
	t.Setenv("USER", "alice")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, "sqlite3", config.Store.Driver)
	assert.Equal(t, "chansql.db", config.Store.Connection)
	assert.False(t, config.Store.IsMemory())
	assert.Equal(t, "guild-1", config.Guild)
	assert.Equal(t, "alice", config.User)
	assert.Equal(t, 100, config.FetchLimit)
	assert.Equal(t, "table", config.Output.Format)
	assert.Equal(t, 20, config.Output.MaxRows)
	assert.Equal(t, 50, config.Output.MaxColumnWidth)
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	t.Setenv("CHANSQL_DB", "test.db")
	t.Setenv("DEV_GUILD_ID", "ignored")

	configPath := writeConfig(t, `
store:
  driver: sqlite3
  connection: ${CHANSQL_DB}
guild: "1234"
user: bob
fetch_limit: 50
output:
  format: json
  max_rows: 5
`)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	assert.Equal(t, "sqlite3", config.Store.Driver)
	assert.Equal(t, "test.db", config.Store.Connection)
	assert.Equal(t, "1234", config.Guild)
	assert.Equal(t, "bob", config.User)
	assert.Equal(t, 50, config.FetchLimit)
	assert.Equal(t, "json", config.Output.Format)
	assert.Equal(t, 5, config.Output.MaxRows)
	assert.Equal(t, 50, config.Output.MaxColumnWidth)
}

func TestLoadConfig_StoreDefaults(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		driver     string
		connection string
	}{
		{"no store section", "guild: g\n", "sqlite3", "chansql.db"},
		{"sqlite without connection", "store:\n  driver: sqlite\n", "sqlite3", "chansql.db"},
		{"sqlite with unset variable", "store:\n  driver: sqlite3\n  connection: ${CHANSQL_UNSET_CONNECTION}\n", "sqlite3", "chansql.db"},
		{"explicit memory", "store:\n  driver: memory\n  connection: ignored.db\n", "memory", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			assert.NoError(t, err)
			assert.Equal(t, tt.driver, config.Store.Driver)
			assert.Equal(t, tt.connection, config.Store.Connection)
		})
	}
}

func TestLoadConfig_ServerDriverNeedsConnection(t *testing.T) {
	configPath := writeConfig(t, `
store:
  driver: mysql
  connection: ${CHANSQL_UNSET_CONNECTION}
`)

	_, err := LoadConfig(configPath)
	assert.IsError(t, err, ErrConfigValidation)
	assert.Contains(t, err.Error(), "store.connection is required for driver 'mysql'")
}

func TestLoadConfig_DefaultStoreKeepsDataBetweenRuns(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DEV_GUILD_ID", "guild")
	t.Setenv("USER", "tester")

	ctx := context.Background()

	run := func(fn func(e *engine.Engine, sess engine.Session)) {
		config, err := LoadConfig("chansql.yaml")
		assert.NoError(t, err)

		sess, err := config.Session()
		assert.NoError(t, err)

		s, err := OpenStore(ctx, config)
		assert.NoError(t, err)

		defer s.Close()

		fn(engine.New(s, engine.Options{}), sess)
	}

	run(func(e *engine.Engine, sess engine.Session) {
		_, err := e.CreateDatabase(ctx, sess, "shop")
		assert.NoError(t, err)
	})

	run(func(e *engine.Engine, sess engine.Session) {
		name, err := e.Use(ctx, sess, "shop")
		assert.NoError(t, err)
		assert.Equal(t, "shop", name.Value)
	})
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHANSQL_HOST", "localhost")
	t.Setenv("CHANSQL_PORT", "5432")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"braced", "${CHANSQL_HOST}:${CHANSQL_PORT}", "localhost:5432"},
		{"plain", "postgres://$CHANSQL_HOST/db", "postgres://localhost/db"},
		{"unset", "${CHANSQL_NOT_SET}x", "x"},
		{"no variables", "chansql.db", "chansql.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestNormalizeDriverName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"postgres", "pgx"},
		{"PostgreSQL", "pgx"},
		{"pgx", "pgx"},
		{"mariadb", "mysql"},
		{"sqlite", "sqlite3"},
		{" Memory ", "memory"},
		{"oracle", "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeDriverName(tt.input))
		})
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	config := getDefaultConfig()
	config.Guild = "g"

	data, err := yaml.Marshal(config)
	assert.NoError(t, err)

	var decoded Config
	err = yaml.UnmarshalWithOptions(data, &decoded, yaml.Strict())
	assert.NoError(t, err)
	assert.Equal(t, *config, decoded)
}

func TestConfigSession(t *testing.T) {
	config := &Config{Guild: "g", User: "u"}

	sess, err := config.Session()
	assert.NoError(t, err)
	assert.Equal(t, "g", sess.Guild)
	assert.Equal(t, "u", sess.User)

	_, err = (&Config{User: "u"}).Session()
	assert.IsError(t, err, ErrGuildRequired)

	_, err = (&Config{Guild: "g"}).Session()
	assert.IsError(t, err, ErrUserRequired)
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	s, err := OpenStore(ctx, &Config{Store: StoreConfig{Driver: "memory"}})
	assert.NoError(t, err)

	_, isMemory := s.(*memstore.Store)
	assert.True(t, isMemory)
	assert.NoError(t, s.Close())

	s, err = OpenStore(ctx, &Config{Store: StoreConfig{Driver: "sqlite3", Connection: ":memory:"}})
	assert.NoError(t, err)

	_, isSQL := s.(*sqlstore.Store)
	assert.True(t, isSQL)
	assert.NoError(t, s.Close())
}
