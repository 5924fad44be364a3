package engine

import (
	"context"
	"fmt"

	"github.com/shibukawa/chansql/rowcodec"
	"github.com/shibukawa/chansql/validate"
	"github.com/shibukawa/chansql/value"
)

// Insert parses values, validates them against the table schema and the
// rows already stored, and appends the encoded row. Inserts into one table
// are serialized so the primary key check sees every earlier insert.
func (e *Engine) Insert(ctx context.Context, sess Session, requested, valuesText string) (rowcodec.Row, error) {
	e.log.Info("INSERT command executed for table: %s with data: %s", requested, valuesText)

	values, err := value.ParseList(valuesText)
	if err != nil {
		return rowcodec.Row{}, err
	}

	if len(values) == 0 {
		return rowcodec.Row{}, fmt.Errorf("%w: give at least one value, e.g. 1, 'text', true", ErrNoValues)
	}

	t, err := e.openTable(ctx, sess, requested)
	if err != nil {
		return rowcodec.Row{}, err
	}

	unlock := e.store.LockTable(t.channel.ID)
	defer unlock()

	var existing []rowcodec.Row

	if len(t.schema.PrimaryKey()) > 0 {
		existing, _, err = e.scan(ctx, t, 0)
		if err != nil {
			return rowcodec.Row{}, err
		}
	}

	if err := validate.Insert(t.schema, values, existing); err != nil {
		return rowcodec.Row{}, err
	}

	row := rowcodec.NewPositionalRow(e.now().UTC(), values)
	if !t.schema.IsFlexible() {
		row = rowcodec.NewRow(row.Timestamp, t.schema.Names(), values)
	}

	if _, err := e.store.AppendRow(ctx, t.channel.ID, rowcodec.Encode(row)); err != nil {
		return rowcodec.Row{}, fmt.Errorf("insert into %s: %w", t.name, err)
	}

	return row, nil
}
