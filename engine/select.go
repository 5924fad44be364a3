package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shibukawa/chansql/filter"
	"github.com/shibukawa/chansql/schema"
	"github.com/shibukawa/chansql/value"
)

// SelectQuery is a parsed SELECT command.
type SelectQuery struct {
	// Columns is "*" or a comma-separated column list.
	Columns  string
	Table    string
	Distinct bool
	// Where is an optional condition.
	Where string
}

// Result holds the projected rows of a SELECT.
type Result struct {
	Table    string
	Columns  []string
	Rows     [][]value.Value
	Distinct bool
	Where    string
	// Skipped counts stored rows that could not be decoded.
	Skipped int
}

// Select reads the most recent rows of a table, oldest first, keeps those
// matching the condition and projects the requested columns.
func (e *Engine) Select(ctx context.Context, sess Session, q SelectQuery) (*Result, error) {
	e.log.Info("SELECT command executed: columns=%s, table=%s, distinct=%t, where=%s", q.Columns, q.Table, q.Distinct, q.Where)

	t, err := e.openTable(ctx, sess, q.Table)
	if err != nil {
		return nil, err
	}

	columns, err := selectColumns(q.Columns, t.schema)
	if err != nil {
		return nil, err
	}

	var condition filter.Expr

	if strings.TrimSpace(q.Where) != "" {
		condition, err = filter.Parse(q.Where)
		if err != nil {
			return nil, err
		}

		for _, c := range filter.Columns(condition) {
			if !t.schema.IsFlexible() && t.schema.Index(c) < 0 {
				e.log.Debug("condition refers to %s, which table %s does not have", c, t.name)
			}
		}
	}

	rows, skipped, err := e.scan(ctx, t, e.fetchLimit)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Table:    t.name,
		Columns:  columns,
		Distinct: q.Distinct,
		Where:    strings.TrimSpace(q.Where),
		Skipped:  skipped,
		Rows:     [][]value.Value{},
	}

	seen := make(map[string]bool)

	for _, row := range rows {
		if condition != nil && !filter.Evaluate(condition, row) {
			continue
		}

		projected := make([]value.Value, len(columns))
		for i, c := range columns {
			v, ok := row.Lookup(c)
			if !ok {
				v = value.Null()
			}

			projected[i] = v
		}

		if q.Distinct {
			key := distinctKey(projected)
			if seen[key] {
				continue
			}

			seen[key] = true
		}

		result.Rows = append(result.Rows, projected)
	}

	if skipped > 0 {
		e.log.Warn("%d row(s) of table %s could not be decoded and were skipped", skipped, t.name)
	}

	return result, nil
}

// selectColumns resolves "*" or a column list. Schema tables report
// unknown columns and use the declared spelling; flexible tables accept
// any name or 1-based position.
func selectColumns(text string, s schema.Schema) ([]string, error) {
	text = strings.TrimSpace(text)

	if text == "*" {
		if s.IsFlexible() {
			return nil, fmt.Errorf("%w: '*' needs a table schema, list the columns or positions instead", ErrSchemaRequired)
		}

		return s.Names(), nil
	}

	var columns []string

	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		if !s.IsFlexible() {
			i := s.Index(name)
			if i < 0 {
				return nil, fmt.Errorf("%w: %s (available columns: %s)", ErrUnknownColumn, name, strings.Join(s.Names(), ", "))
			}

			name = s[i].Name
		}

		columns = append(columns, name)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: give column names or '*'", ErrInvalidColumnSelection)
	}

	return columns, nil
}

func distinctKey(values []value.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Kind.String() + ":" + value.Render(v)
	}

	return strings.Join(parts, "\x1f")
}
