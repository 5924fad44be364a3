package schema

import (
	"errors"
	"strings"

	cmn "github.com/shibukawa/chansql/parser/parsercommon"
	pc "github.com/shibukawa/parsercombinator"
)

// TopicPrefix marks the schema inside older channel topics.
const TopicPrefix = "Schema:"

// legacyColumnDefinition accepts the older `name: TYPE` spelling and ignores
// modifiers it does not know.
var legacyColumnDefinition = pc.Seq(
	cmn.SP,
	cmn.Tag("column", cmn.WS2(cmn.Identifier)),
	pc.Optional(cmn.WS2(cmn.Colon)),
	cmn.Tag("type", cmn.WS2(cmn.Identifier)),
	pc.Optional(typeParam),
	pc.ZeroOrMore("constraint", pc.Or(constraint, cmn.WS2(cmn.Identifier))),
	cmn.EOS,
)

// Decode reads stored schema text. The canonical grammar is tried first;
// when it fails the text is read with the legacy grammar, where missing or
// illegal parameters mean "no constraint" instead of an error.
func Decode(text string) (Schema, error) {
	if i := strings.Index(text, TopicPrefix); i >= 0 {
		text = text[i+len(TopicPrefix):]
	}

	s, err := Parse(text)
	if err == nil {
		return s, nil
	}

	legacy, legacyErr := decodeLegacy(text)
	if legacyErr != nil {
		if relaxedByLegacy(err) {
			return nil, legacyErr
		}

		return nil, err
	}

	return legacy, nil
}

// relaxedByLegacy reports whether err is one the legacy grammar forgives,
// so the legacy failure is the real cause.
func relaxedByLegacy(err error) bool {
	for _, relaxed := range []error{
		ErrInvalidColumnDefinition,
		ErrMissingSize,
		ErrSizeOutOfRange,
		ErrPrecisionOutOfRange,
		ErrParamNotAllowed,
	} {
		if errors.Is(err, relaxed) {
			return true
		}
	}

	return false
}

func decodeLegacy(text string) (Schema, error) {
	defs, err := splitDefinitions(text, legacyColumnDefinition)
	if err != nil || len(defs) == 0 {
		return nil, err
	}

	result := make(Schema, 0, len(defs))

	for _, def := range defs {
		dataType, err := legacyTypeSpec(def.typeName, def.param)
		if err != nil {
			return nil, withColumn(err, def)
		}

		result, err = appendColumn(result, def, dataType)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// legacyTypeSpec relaxes ValidateTypeSpec: a missing or bad size becomes the
// largest size, a bad precision is dropped and stray parameters are ignored.
func legacyTypeSpec(name, param string) (DataType, error) {
	dataType, err := ValidateTypeSpec(name, param)
	if err == nil {
		return dataType, nil
	}

	kind, ok := LookupType(name)
	if !ok {
		return DataType{}, err
	}

	switch {
	case errors.Is(err, ErrMissingSize), errors.Is(err, ErrSizeOutOfRange):
		return DataType{Kind: kind, Size: MaxSize}, nil
	case errors.Is(err, ErrPrecisionOutOfRange), errors.Is(err, ErrParamNotAllowed):
		return DataType{Kind: kind}, nil
	default:
		return DataType{}, err
	}
}
