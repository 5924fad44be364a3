package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	databasePrefix = "db_"
	tablePrefix    = "table_"
)

var lower = cases.Lower(language.Und)

// Sanitize turns name into a valid channel name: lower case, with anything
// other than ASCII letters, digits and '_' replaced by '_', runs of '_'
// collapsed and leading or trailing '_' removed. changed reports whether
// the result differs from the trimmed input.
func Sanitize(name string) (sanitized string, changed bool) {
	original := strings.TrimSpace(name)

	var b strings.Builder

	for _, r := range lower.String(original) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	sanitized = b.String()
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}

	sanitized = strings.Trim(sanitized, "_")

	return sanitized, sanitized != original
}

// Name is a sanitized database or table name.
type Name struct {
	// Value is the sanitized name without its channel prefix.
	Value string
	// Changed reports whether sanitizing altered the requested name.
	Changed bool
}

func sanitizeName(kind, requested string) (Name, error) {
	sanitized, changed := Sanitize(requested)
	if sanitized == "" {
		return Name{}, fmt.Errorf("%w: %s name %q has no valid characters", ErrInvalidName, kind, requested)
	}

	return Name{Value: sanitized, Changed: changed}, nil
}
