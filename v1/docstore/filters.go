package docstore

import (
	"fmt"
	"reflect"
)

// Operator is a leaf comparison operator.
type Operator string

const (
	OpEq    Operator = "=="
	OpNe    Operator = "!="
	OpGt    Operator = ">"
	OpGte   Operator = ">="
	OpLt    Operator = "<"
	OpLte   Operator = "<="
	OpIn    Operator = "in"
	OpNotIn Operator = "not in"
)

// Valid reports whether o is a known comparison operator.
func (o Operator) Valid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn:
		return true
	}
	return false
}

// LogicalOperator combines sub-filters.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
	LogicalNot LogicalOperator = "NOT"
)

// Valid reports whether o is a known logical operator.
func (o LogicalOperator) Valid() bool {
	switch o {
	case LogicalAnd, LogicalOr, LogicalNot:
		return true
	}
	return false
}

// Filter is a node in the backend-neutral filter expression tree: either a
// Comparison leaf or a Combinator. The set of implementations is closed;
// adapters compile a Filter by switching on the two node types.
type Filter interface {
	// isFilter is a marker method keeping the node set closed.
	isFilter()
}

// Comparison is a leaf filter: one field compared against one value.
// With OpIn and OpNotIn the value must be an ordered sequence (a slice);
// element order is preserved through compilation.
type Comparison struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

func (Comparison) isFilter() {}

// Combinator is an internal filter node joining operands with a logical
// operator. LogicalNot requires exactly one operand.
type Combinator struct {
	Operator LogicalOperator `json:"logical_operator"`
	Operands []Filter        `json:"operands"`
}

func (Combinator) isFilter() {}

// Eq matches documents whose field equals value.
func Eq(field string, value any) Filter {
	return Comparison{Field: field, Operator: OpEq, Value: value}
}

// Ne matches documents whose field does not equal value.
func Ne(field string, value any) Filter {
	return Comparison{Field: field, Operator: OpNe, Value: value}
}

// Gt matches documents whose field is greater than value.
func Gt(field string, value any) Filter {
	return Comparison{Field: field, Operator: OpGt, Value: value}
}

// Gte matches documents whose field is greater than or equal to value.
func Gte(field string, value any) Filter {
	return Comparison{Field: field, Operator: OpGte, Value: value}
}

// Lt matches documents whose field is less than value.
func Lt(field string, value any) Filter {
	return Comparison{Field: field, Operator: OpLt, Value: value}
}

// Lte matches documents whose field is less than or equal to value.
func Lte(field string, value any) Filter {
	return Comparison{Field: field, Operator: OpLte, Value: value}
}

// In matches documents whose field equals one of values.
func In(field string, values ...any) Filter {
	return Comparison{Field: field, Operator: OpIn, Value: values}
}

// NotIn matches documents whose field equals none of values.
func NotIn(field string, values ...any) Filter {
	return Comparison{Field: field, Operator: OpNotIn, Value: values}
}

// And matches documents satisfying every operand.
func And(operands ...Filter) Filter {
	return Combinator{Operator: LogicalAnd, Operands: operands}
}

// Or matches documents satisfying at least one operand.
func Or(operands ...Filter) Filter {
	return Combinator{Operator: LogicalOr, Operands: operands}
}

// Not matches documents not satisfying the operand.
func Not(operand Filter) Filter {
	return Combinator{Operator: LogicalNot, Operands: []Filter{operand}}
}

// ValidateFilter checks that f is well-formed. Adapters call it before
// compiling, so a malformed expression never reaches a backend.
func ValidateFilter(f Filter) error {
	if f == nil {
		return FilterSyntaxErrorf("filter expression is nil")
	}
	switch node := f.(type) {
	case Comparison:
		if node.Field == "" {
			return FilterSyntaxErrorf("comparison field must be a non-empty string")
		}
		if !node.Operator.Valid() {
			return FilterSyntaxErrorf("unknown comparison operator %q", node.Operator)
		}
		if node.Operator == OpIn || node.Operator == OpNotIn {
			values, err := SequenceValues(node.Value)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return FilterSyntaxErrorf("in / not in requires a non-empty sequence")
			}
		}
		return nil
	case Combinator:
		if !node.Operator.Valid() {
			return FilterSyntaxErrorf("unknown logical operator %q", node.Operator)
		}
		if len(node.Operands) == 0 {
			return FilterSyntaxErrorf("%s requires at least one operand", node.Operator)
		}
		if node.Operator == LogicalNot && len(node.Operands) != 1 {
			return FilterSyntaxErrorf("NOT requires exactly one operand, got %d", len(node.Operands))
		}
		for _, operand := range node.Operands {
			if err := ValidateFilter(operand); err != nil {
				return err
			}
		}
		return nil
	default:
		return FilterSyntaxErrorf("unsupported filter node %T", f)
	}
}

// SequenceValues returns the elements of an in / not in comparison value in
// order. Any slice or array type is accepted; everything else is a filter
// syntax error.
func SequenceValues(value any) ([]any, error) {
	if values, ok := value.([]any); ok {
		return values, nil
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, FilterSyntaxErrorf("in / not in requires a sequence value, got %s", describeValue(value))
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, nil
}

func describeValue(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

// String renders the comparison for logs and error messages. The value is
// elided; filter values may carry user data.
func (c Comparison) String() string {
	return fmt.Sprintf("%s %s <value>", c.Field, c.Operator)
}
