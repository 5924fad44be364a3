package engine

import (
	"context"

	"github.com/shibukawa/chansql/rowcodec"
)

// scan decodes the stored rows of t. Rows that cannot be decoded are
// skipped and counted.
func (e *Engine) scan(ctx context.Context, t table, limit int) ([]rowcodec.Row, int, error) {
	var (
		rows    []rowcodec.Row
		skipped int
	)

	for stored, err := range e.store.FetchRows(ctx, t.channel.ID, limit) {
		if err != nil {
			return nil, 0, err
		}

		row, err := rowcodec.Decode(stored.Content)
		if err != nil {
			skipped++

			e.log.Warn("skipping row %s of table %s: %v", stored.ID, t.name, err)

			continue
		}

		if row.Timestamp.IsZero() {
			row.Timestamp = stored.CreatedAt
		}

		rows = append(rows, t.align(row))
	}

	return rows, skipped, nil
}

// align names the values of a positional row written before the table had
// a schema, when the value count matches.
func (t table) align(row rowcodec.Row) rowcodec.Row {
	if !row.IsPositional() || t.schema.IsFlexible() || len(row.Values) != len(t.schema) {
		return row
	}

	return rowcodec.NewRow(row.Timestamp, t.schema.Names(), row.Values)
}
