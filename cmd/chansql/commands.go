package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/query"
)

// runner is implemented by every command that needs an open session.
type runner interface {
	run(ctx context.Context, s *session, w io.Writer) error
}

// withSession opens a session for cmd, runs it and closes the store.
func withSession(goctx context.Context, appCtx *Context, cmd runner) error {
	s, err := appCtx.open(goctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return cmd.run(goctx, s, os.Stdout)
}

// renamed tells the user when sanitizing changed a requested name.
func renamed(w io.Writer, kind, requested string, name engine.Name) {
	if name.Changed {
		fmt.Fprintf(w, "Note: %s name '%s' was sanitized to '%s'\n", kind, strings.TrimSpace(requested), name.Value)
	}
}

// CreateDBCmd creates a database
type CreateDBCmd struct {
	Name string `arg:"" help:"Database name"`
}

func (cmd *CreateDBCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *CreateDBCmd) run(ctx context.Context, s *session, w io.Writer) error {
	name, err := s.engine.CreateDatabase(ctx, s.sess, cmd.Name)
	if err != nil {
		return err
	}

	renamed(w, "Database", cmd.Name, name)
	color.New(color.FgGreen).Fprintf(w, "Database '%s' created successfully!\n", name.Value)

	return nil
}

// DropDBCmd drops an empty database
type DropDBCmd struct {
	Name string `arg:"" help:"Database name"`
}

func (cmd *DropDBCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *DropDBCmd) run(ctx context.Context, s *session, w io.Writer) error {
	name, err := s.engine.DropDatabase(ctx, s.sess, cmd.Name)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(w, "Database '%s' dropped successfully!\n", name.Value)

	return nil
}

// UseCmd selects the current database
type UseCmd struct {
	Name string `arg:"" help:"Database name"`
}

func (cmd *UseCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *UseCmd) run(ctx context.Context, s *session, w io.Writer) error {
	name, err := s.engine.Use(ctx, s.sess, cmd.Name)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(w, "Now using database '%s'\n", name.Value)

	return nil
}

// CurrentDBCmd shows the current database
type CurrentDBCmd struct{}

func (cmd *CurrentDBCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *CurrentDBCmd) run(ctx context.Context, s *session, w io.Writer) error {
	name, err := s.engine.CurrentDatabase(ctx, s.sess)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, name)

	return nil
}

// ListDatabasesCmd lists databases
type ListDatabasesCmd struct{}

func (cmd *ListDatabasesCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *ListDatabasesCmd) run(ctx context.Context, s *session, w io.Writer) error {
	names, err := s.engine.ListDatabases(ctx, s.sess)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(w, "No databases found.")
		return nil
	}

	for _, name := range names {
		fmt.Fprintln(w, name)
	}

	return nil
}

// CreateTableCmd creates a table
type CreateTableCmd struct {
	Name       string `arg:"" help:"Table name"`
	Definition string `arg:"" optional:"" help:"Column definitions, e.g. \"id INT PRIMARY KEY, name VARCHAR(50)\". Omit for a flexible table."`
}

func (cmd *CreateTableCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *CreateTableCmd) run(ctx context.Context, s *session, w io.Writer) error {
	name, sch, err := s.engine.CreateTable(ctx, s.sess, cmd.Name, cmd.Definition)
	if err != nil {
		return err
	}

	renamed(w, "Table", cmd.Name, name)
	color.New(color.FgGreen).Fprintf(w, "Table '%s' created successfully!\n", name.Value)

	if sch.IsFlexible() {
		fmt.Fprintln(w, "No schema was given: rows are stored without validation.")
	} else {
		fmt.Fprintf(w, "Schema: %s\n", sch.String())
	}

	return nil
}

// DropTableCmd drops a table
type DropTableCmd struct {
	Name string `arg:"" help:"Table name"`
}

func (cmd *DropTableCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *DropTableCmd) run(ctx context.Context, s *session, w io.Writer) error {
	name, err := s.engine.DropTable(ctx, s.sess, cmd.Name)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(w, "Table '%s' dropped successfully!\n", name.Value)

	return nil
}

// DescribeCmd shows a table definition
type DescribeCmd struct {
	Name string `arg:"" help:"Table name"`
}

func (cmd *DescribeCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *DescribeCmd) run(ctx context.Context, s *session, w io.Writer) error {
	info, err := s.engine.Describe(ctx, s.sess, cmd.Name)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, info.CreateTableSQL())

	return nil
}

// ListTablesCmd lists tables of the current database
type ListTablesCmd struct{}

func (cmd *ListTablesCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *ListTablesCmd) run(ctx context.Context, s *session, w io.Writer) error {
	tables, err := s.engine.ListTables(ctx, s.sess)
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		fmt.Fprintln(w, "No tables found.")
		return nil
	}

	for _, t := range tables {
		if t.Schema.IsFlexible() {
			fmt.Fprintf(w, "%s (no schema)\n", t.Name)
		} else {
			fmt.Fprintf(w, "%s (%s)\n", t.Name, t.Schema.String())
		}
	}

	return nil
}

// InsertCmd inserts a row
type InsertCmd struct {
	Table  string `arg:"" help:"Table name"`
	Values string `arg:"" help:"Comma-separated values, e.g. \"1, 'alice', true\""`
}

func (cmd *InsertCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *InsertCmd) run(ctx context.Context, s *session, w io.Writer) error {
	if _, err := s.engine.Insert(ctx, s.sess, cmd.Table, cmd.Values); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(w, "Data inserted successfully into '%s'\n", cmd.Table)

	return nil
}

// SelectCmd queries rows
type SelectCmd struct {
	Columns  string `arg:"" help:"'*' or comma-separated column names (positions for tables without schema)"`
	Table    string `arg:"" help:"Table name"`
	Where    string `help:"Condition, e.g. \"age = 30 AND (name = 'bob' OR name = 'amy')\"" short:"w"`
	Distinct bool   `help:"Remove duplicate rows"`
	Format   string `help:"Output format (table, json, csv, yaml, markdown, xml). Defaults to the configured format." short:"f"`
}

func (cmd *SelectCmd) Run(appCtx *Context, goctx context.Context) error {
	return withSession(goctx, appCtx, cmd)
}

func (cmd *SelectCmd) run(ctx context.Context, s *session, w io.Writer) error {
	format := cmd.Format
	if format == "" {
		format = s.config.Output.Format
	}

	outputFormat, err := query.ParseOutputFormat(format)
	if err != nil {
		return err
	}

	result, err := s.engine.Select(ctx, s.sess, engine.SelectQuery{
		Columns:  cmd.Columns,
		Table:    cmd.Table,
		Distinct: cmd.Distinct,
		Where:    cmd.Where,
	})
	if err != nil {
		return err
	}

	formatter := query.NewFormatter(outputFormat)
	formatter.MaxRows = s.config.Output.MaxRows
	formatter.MaxColumnWidth = s.config.Output.MaxColumnWidth

	return formatter.Write(result, w)
}
