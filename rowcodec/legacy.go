package rowcodec

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shibukawa/chansql/value"
)

var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC1123Z,
	time.RFC1123,
}

var errNoData = errors.New("no DATA section")

// decodeLegacy reads blocks written before the canonical layout: the
// TIMESTAMP line may be missing or use another layout, entries need not be
// indented, values may be unquoted text, and blocks may carry positional
// values without names.
func decodeLegacy(block string) (Row, error) {
	head, data, found := strings.Cut(block, dataLabel)
	if !found {
		return Row{}, errNoData
	}

	var ts time.Time

	for _, line := range strings.Split(head, "\n") {
		stamp, ok := strings.CutPrefix(strings.TrimSpace(line), timestampLabel)
		if !ok {
			continue
		}

		parsed, err := parseLegacyTime(strings.TrimSpace(stamp))
		if err != nil {
			return Row{}, err
		}

		ts = parsed.UTC()
	}

	var (
		names      []string
		named      []value.Value
		positional []value.Value
	)

	for _, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if name, raw, ok := strings.Cut(line, ": "); ok && isLegacyName(name) {
			names = append(names, strings.TrimSpace(name))
			named = append(named, legacyValue(raw))

			continue
		}

		if values, err := value.ParseList(line); err == nil {
			positional = append(positional, values...)
		} else {
			positional = append(positional, legacyValue(line))
		}
	}

	switch {
	case len(names) > 0 && len(positional) > 0:
		return Row{}, errBadData
	case len(positional) > 0:
		return NewPositionalRow(ts, positional), nil
	default:
		return NewRow(ts, names, named), nil
	}
}

func parseLegacyTime(s string) (time.Time, error) {
	var firstErr error

	for _, layout := range legacyTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, errors.Join(errBadTimestamp, firstErr)
}

func isLegacyName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !strings.ContainsAny(name, " \t'\",")
}

// legacyValue infers a value from unmarked text. Text that is nothing else
// is kept as a string.
func legacyValue(raw string) value.Value {
	text := strings.TrimSpace(raw)

	switch strings.ToLower(text) {
	case "null":
		return value.Null()
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}

	if len(text) >= 2 {
		if text[0] == '\'' && text[len(text)-1] == '\'' {
			return value.String(strings.ReplaceAll(text[1:len(text)-1], "''", "'"))
		}

		if text[0] == '"' && text[len(text)-1] == '"' {
			return value.String(text[1 : len(text)-1])
		}
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int(i)
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Float(f)
	}

	return value.String(text)
}
