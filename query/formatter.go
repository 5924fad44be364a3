// Package query renders SELECT results as a text table, JSON, CSV, YAML,
// Markdown or a DBUnit-style XML dataset.
package query

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-yaml"

	"github.com/shibukawa/chansql/engine"
	"github.com/shibukawa/chansql/value"
)

// ErrInvalidOutputFormat is returned for an unknown format name.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	FormatTable    OutputFormat = "table"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
	FormatXML      OutputFormat = "xml"
)

const (
	DefaultMaxRows        = 20
	DefaultMaxColumnWidth = 50
)

// Formatter formats query results
type Formatter struct {
	Format OutputFormat
	// MaxRows caps the rows of the text table.
	MaxRows int
	// MaxColumnWidth caps the width of a text table cell.
	MaxColumnWidth int
}

// NewFormatter creates a new result formatter
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{
		Format:         format,
		MaxRows:        DefaultMaxRows,
		MaxColumnWidth: DefaultMaxColumnWidth,
	}
}

// Write formats result according to the format.
func (f *Formatter) Write(result *engine.Result, output io.Writer) error {
	switch f.Format {
	case FormatTable:
		return f.formatAsTable(result, output)
	case FormatJSON:
		return f.formatAsJSON(result, output)
	case FormatCSV:
		return f.formatAsCSV(result, output)
	case FormatYAML:
		return f.formatAsYAML(result, output)
	case FormatMarkdown:
		return f.formatAsMarkdown(result, output)
	case FormatXML:
		return f.formatAsXML(result, output)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidOutputFormat, f.Format)
	}
}

// jsonResult keeps the key order of the JSON document.
type jsonResult struct {
	Table   string    `json:"table"`
	Columns []string  `json:"columns"`
	Data    []jsonRow `json:"data"`
	Count   int       `json:"count"`
	Skipped int       `json:"skipped"`
}

// jsonRow is an object whose keys follow the selected column order.
type jsonRow struct {
	columns []string
	values  []value.Value
}

func (r jsonRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}

		var v value.Value
		if i < len(r.values) {
			v = r.values[i]
		}

		val, err := json.Marshal(jsonValue(v))
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// jsonValue converts v for encoding/json, which has no representation for
// infinities and NaN: those are written as their literal text.
func jsonValue(v value.Value) any {
	if v.Kind == value.KindFloat && (math.IsInf(v.Float, 0) || math.IsNaN(v.Float)) {
		return value.Render(v)
	}

	return v.Native()
}

// formatAsJSON formats results as JSON
func (f *Formatter) formatAsJSON(result *engine.Result, output io.Writer) error {
	data := make([]jsonRow, len(result.Rows))
	for i, row := range result.Rows {
		data[i] = jsonRow{columns: result.Columns, values: row}
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	return encoder.Encode(jsonResult{
		Table:   result.Table,
		Columns: result.Columns,
		Data:    data,
		Count:   len(result.Rows),
		Skipped: result.Skipped,
	})
}

// formatAsCSV formats results as CSV
func (f *Formatter) formatAsCSV(result *engine.Result, output io.Writer) error {
	writer := csv.NewWriter(output)

	if err := writer.Write(result.Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range result.Rows {
		strValues := make([]string, len(row))
		for i, val := range row {
			strValues[i] = formatValue(val)
		}

		if err := writer.Write(strValues); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// formatAsYAML formats results as YAML, keeping the column order.
func (f *Formatter) formatAsYAML(result *engine.Result, output io.Writer) error {
	data := make([]yaml.MapSlice, len(result.Rows))

	for i, row := range result.Rows {
		item := make(yaml.MapSlice, len(result.Columns))
		for j, col := range result.Columns {
			item[j] = yaml.MapItem{Key: col, Value: row[j].Native()}
		}

		data[i] = item
	}

	yamlResult := yaml.MapSlice{
		{Key: "table", Value: result.Table},
		{Key: "data", Value: data},
		{Key: "count", Value: len(result.Rows)},
		{Key: "skipped", Value: result.Skipped},
	}

	encoded, err := yaml.Marshal(yamlResult)
	if err != nil {
		return fmt.Errorf("failed to marshal results to YAML: %w", err)
	}

	_, err = output.Write(encoded)

	return err
}

// formatAsXML writes a DBUnit-style dataset: one element per row named
// after the table, one attribute per non-NULL column.
func (f *Formatter) formatAsXML(result *engine.Result, output io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	dataset := doc.CreateElement("dataset")

	for _, row := range result.Rows {
		elem := dataset.CreateElement(xmlName(result.Table))

		for i, col := range result.Columns {
			if row[i].IsNull() {
				continue
			}

			elem.CreateAttr(xmlName(col), formatValue(row[i]))
		}
	}

	doc.Indent(2)

	_, err := doc.WriteTo(output)

	return err
}

// xmlName makes positional column names such as "1" usable as XML names.
func xmlName(name string) string {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return "c" + name
	}

	return name
}

// formatValue renders a value without SQL quoting. Numbers are written in
// plain decimal notation.
func formatValue(v value.Value) string {
	switch v.Kind {
	case value.KindNull:
		return "NULL"
	case value.KindString:
		return v.Str
	case value.KindInteger, value.KindFloat:
		if d, ok := v.Decimal(); ok {
			return d.String()
		}

		return value.Render(v)
	default:
		return value.Render(v)
	}
}

// ParseOutputFormat checks a format name, ignoring case.
func ParseOutputFormat(format string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(format))

	switch f {
	case FormatTable, FormatJSON, FormatCSV, FormatYAML, FormatMarkdown, FormatXML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidOutputFormat, format)
	}
}
