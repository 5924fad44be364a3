// Package filter parses WHERE conditions such as
// `name = 'John' AND age = 25 OR name = 'Jane'` into an expression tree and
// evaluates the tree against decoded rows. AND binds tighter than OR and
// parentheses group.
package filter

import (
	"fmt"
	"slices"

	"github.com/shibukawa/chansql/tokenizer"
	"github.com/shibukawa/chansql/value"
)

// Expr is a node of a parsed condition: *Comparison, *And or *Or.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Comparison tests a column for equality with a literal.
type Comparison struct {
	Column   string
	Literal  value.Value
	Position tokenizer.Position
}

// And matches when both sides match.
type And struct {
	Left, Right Expr
}

// Or matches when either side matches.
type Or struct {
	Left, Right Expr
}

func (*Comparison) isExpr() {}
func (*And) isExpr()        {}
func (*Or) isExpr()         {}

func (c *Comparison) String() string {
	return c.Column + " = " + value.Render(c.Literal)
}

func (a *And) String() string {
	return fmt.Sprintf("(%s AND %s)", a.Left, a.Right)
}

func (o *Or) String() string {
	return fmt.Sprintf("(%s OR %s)", o.Left, o.Right)
}

// Row is anything that can look up a column value by name.
type Row interface {
	Lookup(name string) (value.Value, bool)
}

// Evaluate reports whether row satisfies e. A column the row does not have
// never matches.
func Evaluate(e Expr, row Row) bool {
	switch e := e.(type) {
	case *Comparison:
		v, ok := row.Lookup(e.Column)
		return ok && value.Equal(v, e.Literal)
	case *And:
		return Evaluate(e.Left, row) && Evaluate(e.Right, row)
	case *Or:
		return Evaluate(e.Left, row) || Evaluate(e.Right, row)
	default:
		return false
	}
}

// Columns lists the column names e refers to, in order of first use.
func Columns(e Expr) []string {
	var names []string

	var walk func(Expr)

	walk = func(e Expr) {
		switch e := e.(type) {
		case *Comparison:
			if !slices.Contains(names, e.Column) {
				names = append(names, e.Column)
			}
		case *And:
			walk(e.Left)
			walk(e.Right)
		case *Or:
			walk(e.Left)
			walk(e.Right)
		}
	}

	walk(e)

	return names
}
