package searchindex

import (
	"strings"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// compileFilter translates a filter expression into a bool-query clause.
// The produced clause mirrors the SQL dialect's semantics: the same
// filter selects the same documents on either backend.
//
// Values travel inside the structured query body as JSON, never spliced
// into a query string.
func compileFilter(f docstore.Filter) (map[string]any, error) {
	if err := docstore.ValidateFilter(f); err != nil {
		return nil, err
	}
	return compileNode(f)
}

func compileNode(f docstore.Filter) (map[string]any, error) {
	switch node := f.(type) {
	case docstore.Comparison:
		return compileComparison(node)
	case docstore.Combinator:
		return compileCombinator(node)
	default:
		return nil, docstore.FilterSyntaxErrorf("unsupported filter node %T", f)
	}
}

func compileCombinator(node docstore.Combinator) (map[string]any, error) {
	clauses := make([]map[string]any, 0, len(node.Operands))
	for _, operand := range node.Operands {
		clause, err := compileNode(operand)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}

	switch node.Operator {
	case docstore.LogicalAnd:
		return boolQuery("filter", clauses), nil
	case docstore.LogicalOr:
		query := boolQuery("should", clauses)
		query["bool"].(map[string]any)["minimum_should_match"] = 1
		return query, nil
	case docstore.LogicalNot:
		return boolQuery("must_not", clauses), nil
	default:
		return nil, docstore.FilterSyntaxErrorf("unknown logical operator %q", node.Operator)
	}
}

func compileComparison(node docstore.Comparison) (map[string]any, error) {
	field := fieldName(node.Field)

	switch node.Operator {
	case docstore.OpEq:
		if node.Value == nil {
			return mustNotExist(field), nil
		}
		return map[string]any{"term": map[string]any{field: node.Value}}, nil
	case docstore.OpNe:
		if node.Value == nil {
			return map[string]any{"exists": map[string]any{"field": field}}, nil
		}
		return boolQuery("must_not", []map[string]any{
			{"term": map[string]any{field: node.Value}},
		}), nil
	case docstore.OpGt:
		return rangeClause(field, "gt", node.Value), nil
	case docstore.OpGte:
		return rangeClause(field, "gte", node.Value), nil
	case docstore.OpLt:
		return rangeClause(field, "lt", node.Value), nil
	case docstore.OpLte:
		return rangeClause(field, "lte", node.Value), nil
	case docstore.OpIn:
		values, err := docstore.SequenceValues(node.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{"terms": map[string]any{field: values}}, nil
	case docstore.OpNotIn:
		values, err := docstore.SequenceValues(node.Value)
		if err != nil {
			return nil, err
		}
		return boolQuery("must_not", []map[string]any{
			{"terms": map[string]any{field: values}},
		}), nil
	default:
		return nil, docstore.FilterSyntaxErrorf("unknown comparison operator %q", node.Operator)
	}
}

// fieldName resolves a filter field to its index field. Metadata keys are
// stored flattened at the top level, so an optional "meta." prefix is
// stripped for parity with the SQL dialect.
func fieldName(field string) string {
	if field == "id" {
		return "_id"
	}
	return strings.TrimPrefix(field, "meta.")
}

func boolQuery(occurrence string, clauses []map[string]any) map[string]any {
	return map[string]any{"bool": map[string]any{occurrence: clauses}}
}

func rangeClause(field, bound string, value any) map[string]any {
	return map[string]any{"range": map[string]any{field: map[string]any{bound: value}}}
}

// mustNotExist matches documents where the field is absent or null.
func mustNotExist(field string) map[string]any {
	return boolQuery("must_not", []map[string]any{
		{"exists": map[string]any{"field": field}},
	})
}
