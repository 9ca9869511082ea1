package pgvector

import (
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// compileFilter translates a filter expression into a SQL predicate and its
// ordered parameter list. It is a pure function of its inputs: no backend
// I/O, and the expression is validated before anything is emitted.
//
// Placeholders are numbered from startIndex, so the fragment can be appended
// to a query that already binds parameters. Filter values are only ever
// emitted as placeholders; they never appear in the fragment itself.
func compileFilter(f docstore.Filter, startIndex int) (string, []any, error) {
	if err := docstore.ValidateFilter(f); err != nil {
		return "", nil, err
	}
	c := &filterCompiler{next: startIndex}
	fragment, err := c.compile(f)
	if err != nil {
		return "", nil, err
	}
	return fragment, c.params, nil
}

type filterCompiler struct {
	params []any
	next   int
}

func (c *filterCompiler) placeholder(value any) string {
	c.params = append(c.params, value)
	p := fmt.Sprintf("$%d", c.next)
	c.next++
	return p
}

func (c *filterCompiler) sequencePlaceholders(value any) ([]string, error) {
	values, err := docstore.SequenceValues(value)
	if err != nil {
		return nil, err
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = c.placeholder(v)
	}
	return placeholders, nil
}

func (c *filterCompiler) compile(f docstore.Filter) (string, error) {
	switch node := f.(type) {
	case docstore.Comparison:
		return c.compileComparison(node)
	case docstore.Combinator:
		return c.compileCombinator(node)
	}
	return "", docstore.FilterSyntaxErrorf("unsupported filter node %T", f)
}

func (c *filterCompiler) compileCombinator(node docstore.Combinator) (string, error) {
	if node.Operator == docstore.LogicalNot {
		operand, err := c.compile(node.Operands[0])
		if err != nil {
			return "", err
		}
		return "NOT (" + operand + ")", nil
	}

	token := " AND "
	if node.Operator == docstore.LogicalOr {
		token = " OR "
	}
	parts := make([]string, 0, len(node.Operands))
	for _, operand := range node.Operands {
		part, err := c.compile(operand)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	// Parenthesized so nesting under a different combinator stays unambiguous.
	return "(" + strings.Join(parts, token) + ")", nil
}

var comparisonTokens = map[docstore.Operator]string{
	docstore.OpGt:  ">",
	docstore.OpGte: ">=",
	docstore.OpLt:  "<",
	docstore.OpLte: "<=",
}

func (c *filterCompiler) compileComparison(node docstore.Comparison) (string, error) {
	column := fieldExpression(node.Field, node.Value)

	switch node.Operator {
	case docstore.OpEq:
		if node.Value == nil {
			return column + " IS NULL", nil
		}
		return column + " = " + c.placeholder(node.Value), nil
	case docstore.OpNe:
		if node.Value == nil {
			return column + " IS NOT NULL", nil
		}
		// IS DISTINCT FROM treats missing metadata keys as "not equal"
		// instead of excluding the row, matching the structured dialect.
		return column + " IS DISTINCT FROM " + c.placeholder(node.Value), nil
	case docstore.OpGt, docstore.OpGte, docstore.OpLt, docstore.OpLte:
		return column + " " + comparisonTokens[node.Operator] + " " + c.placeholder(node.Value), nil
	case docstore.OpIn:
		placeholders, err := c.sequencePlaceholders(node.Value)
		if err != nil {
			return "", err
		}
		return column + " IN (" + strings.Join(placeholders, ", ") + ")", nil
	case docstore.OpNotIn:
		placeholders, err := c.sequencePlaceholders(node.Value)
		if err != nil {
			return "", err
		}
		// A row without the metadata key extracts NULL, which NOT IN would
		// exclude; the IS NULL arm keeps it, matching the structured dialect.
		return "(" + column + " IS NULL OR " + column + " NOT IN (" + strings.Join(placeholders, ", ") + "))", nil
	}
	return "", docstore.FilterSyntaxErrorf("unknown comparison operator %q", node.Operator)
}

// fieldExpression maps a filter field to a SQL expression. The id and
// content columns are addressed directly; every other field lives in the
// meta JSONB column and is extracted as text, cast to the comparison
// value's type. An optional "meta." prefix is accepted for parity with the
// structured dialect.
func fieldExpression(field string, value any) string {
	switch field {
	case "id", "content":
		return quoteIdent(field)
	}
	key := strings.TrimPrefix(field, "meta.")
	expr := "meta->>" + quoteLiteral(key)
	switch castKind(value) {
	case castBoolean:
		return "(" + expr + ")::boolean"
	case castNumeric:
		return "(" + expr + ")::numeric"
	}
	return expr
}

type cast int

const (
	castNone cast = iota
	castBoolean
	castNumeric
)

func castKind(value any) cast {
	switch v := value.(type) {
	case bool:
		return castBoolean
	case int, int32, int64, float32, float64:
		return castNumeric
	case []any:
		if len(v) > 0 {
			return castKind(v[0])
		}
	}
	if values, err := docstore.SequenceValues(value); err == nil && len(values) > 0 {
		return castKind(values[0])
	}
	return castNone
}
