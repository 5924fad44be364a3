package rowcodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shibukawa/chansql/value"
)

// ErrCorruptRow is returned when a stored block cannot be decoded. A scan
// skips such rows instead of failing.
var ErrCorruptRow = errors.New("corrupt row")

const (
	timestampLabel = "TIMESTAMP:"
	dataLabel      = "DATA:"
	indent         = "  "
)

// Encode renders row as its canonical block.
func Encode(row Row) string {
	var b strings.Builder

	b.WriteString(timestampLabel)
	b.WriteByte(' ')
	b.WriteString(row.Timestamp.UTC().Format(time.RFC3339Nano))
	b.WriteByte('\n')
	b.WriteString(dataLabel)

	for i, v := range row.Values {
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString(row.Name(i))
		b.WriteString(": ")
		b.WriteString(value.Render(v))
	}

	return b.String()
}

// Decode parses a stored block. Blocks that do not follow the canonical
// layout are read with the legacy reader; if that fails too the error wraps
// ErrCorruptRow.
func Decode(block string) (Row, error) {
	row, err := decodeCanonical(block)
	if err == nil {
		return row, nil
	}

	if legacy, legacyErr := decodeLegacy(block); legacyErr == nil {
		return legacy, nil
	}

	return Row{}, fmt.Errorf("%w: %w", ErrCorruptRow, err)
}

var (
	errBadHeader    = errors.New("missing TIMESTAMP header")
	errBadTimestamp = errors.New("malformed timestamp")
	errBadData      = errors.New("malformed DATA section")
)

func decodeCanonical(block string) (Row, error) {
	header, rest, _ := strings.Cut(block, "\n")

	stamp, found := strings.CutPrefix(header, timestampLabel+" ")
	if !found {
		return Row{}, errBadHeader
	}

	ts, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return Row{}, fmt.Errorf("%w: %s", errBadTimestamp, stamp)
	}

	rest, found = strings.CutPrefix(rest, dataLabel)
	if !found {
		return Row{}, fmt.Errorf("%w: missing DATA label", errBadData)
	}

	var (
		names  []string
		values []value.Value
	)

	for rest != "" && rest != "\n" {
		entry, found := strings.CutPrefix(rest, "\n"+indent)
		if !found {
			return Row{}, fmt.Errorf("%w: expected an indented entry", errBadData)
		}

		name, literal, found := strings.Cut(entry, ": ")
		if !found || name == "" || strings.ContainsAny(name, " \t\n'") {
			return Row{}, fmt.Errorf("%w: expected 'name: value'", errBadData)
		}

		v, remaining, err := readLiteral(literal)
		if err != nil {
			return Row{}, fmt.Errorf("%w: column %s: %w", errBadData, name, err)
		}

		names = append(names, name)
		values = append(values, v)
		rest = remaining
	}

	positional, err := isPositional(names)
	if err != nil {
		return Row{}, err
	}

	if positional {
		return NewPositionalRow(ts.UTC(), values), nil
	}

	return NewRow(ts.UTC(), names, values), nil
}

// readLiteral reads one rendered value and returns the text after it.
// Quoted strings may span lines.
func readLiteral(s string) (value.Value, string, error) {
	if strings.HasPrefix(s, "'") {
		content, rest, ok := scanQuoted(s)
		if !ok {
			return value.Value{}, "", value.ErrUnterminatedString
		}

		if rest != "" && !strings.HasPrefix(rest, "\n") {
			return value.Value{}, "", fmt.Errorf("unexpected text after string: %q", firstLine(rest))
		}

		return value.String(content), rest, nil
	}

	line, rest, found := strings.Cut(s, "\n")
	if found {
		rest = "\n" + rest
	}

	v, err := value.ParseLiteral(line)
	if err != nil {
		return value.Value{}, "", err
	}

	if v.Kind == value.KindString {
		return value.Value{}, "", fmt.Errorf("unexpected text: %q", line)
	}

	return v, rest, nil
}

// scanQuoted splits a leading quoted literal from s, collapsing ''.
func scanQuoted(s string) (string, string, bool) {
	var b strings.Builder

	for i := 1; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}

		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++

			continue
		}

		return b.String(), s[i+1:], true
	}

	return "", "", false
}

// isPositional accepts either all names 1..n in order or no numeric names at all.
func isPositional(names []string) (bool, error) {
	if len(names) == 0 {
		return false, nil
	}

	numeric := 0

	for i, name := range names {
		if n, err := strconv.Atoi(name); err == nil {
			if n != i+1 {
				return false, fmt.Errorf("%w: field %s out of order", errBadData, name)
			}

			numeric++
		}
	}

	switch numeric {
	case 0:
		return false, nil
	case len(names):
		return true, nil
	default:
		return false, fmt.Errorf("%w: mixed positional and named fields", errBadData)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
