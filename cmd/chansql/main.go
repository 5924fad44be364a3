package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/shibukawa/chansql"
	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/logging"
	"github.com/shibukawa/chansql/store"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// session holds everything a command needs to talk to the engine.
type session struct {
	config *chansql.Config
	store  store.Store
	engine *engine.Engine
	sess   engine.Session
}

// open loads the configuration, opens the store and builds an engine.
// The caller must close the returned session.
func (c *Context) open(ctx context.Context) (*session, error) {
	config, err := chansql.LoadConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	sess, err := config.Session()
	if err != nil {
		return nil, err
	}

	s, err := chansql.OpenStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// results go to stdout, so every log line goes to stderr
	logger := logging.NewWithWriters(os.Stderr, os.Stderr, logging.Options{Quiet: c.Quiet, Verbose: c.Verbose})
	logger.Debug("store %s opened for guild %s", config.Store.Driver, sess.Guild)

	return &session{
		config: config,
		store:  s,
		engine: engine.New(s, engine.Options{FetchLimit: config.FetchLimit, Logger: logger}),
		sess:   sess,
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// CLI represents the command-line interface
var CLI struct {
	Config        string           `help:"Configuration file path" default:"chansql.yaml"`
	Verbose       bool             `help:"Enable verbose output" short:"v"`
	Quiet         bool             `help:"Suppress output" short:"q"`
	CreateDB      CreateDBCmd      `cmd:"" name:"create-db" help:"Create a database"`
	DropDB        DropDBCmd        `cmd:"" name:"drop-db" help:"Drop an empty database"`
	Use           UseCmd           `cmd:"" help:"Select the current database"`
	CurrentDB     CurrentDBCmd     `cmd:"" name:"current-db" help:"Show the current database"`
	ListDatabases ListDatabasesCmd `cmd:"" name:"list-databases" help:"List databases"`
	CreateTable   CreateTableCmd   `cmd:"" name:"create-table" help:"Create a table in the current database"`
	DropTable     DropTableCmd     `cmd:"" name:"drop-table" help:"Drop a table and its rows"`
	Describe      DescribeCmd      `cmd:"" help:"Show a table definition"`
	ListTables    ListTablesCmd    `cmd:"" name:"list-tables" help:"List tables of the current database"`
	Insert        InsertCmd        `cmd:"" help:"Insert a row"`
	Select        SelectCmd        `cmd:"" help:"Query rows"`
	Version       VersionCmd       `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("chansql v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("chansql"),
		kong.Description("SQL-like databases stored as chat channels and messages"),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
