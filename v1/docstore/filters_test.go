package docstore

import (
	"errors"
	"testing"
)

func TestValidateFilter_SimpleComparison(t *testing.T) {
	if err := ValidateFilter(Eq("city", "London")); err != nil {
		t.Errorf("expected valid filter, got %v", err)
	}
}

func TestValidateFilter_NilFilter(t *testing.T) {
	err := ValidateFilter(nil)
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_EmptyField(t *testing.T) {
	err := ValidateFilter(Eq("", "London"))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_UnknownOperator(t *testing.T) {
	err := ValidateFilter(Comparison{Field: "city", Operator: "~=", Value: "London"})
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_UnknownLogicalOperator(t *testing.T) {
	err := ValidateFilter(Combinator{Operator: "XOR", Operands: []Filter{Eq("a", 1)}})
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_CombinatorWithoutOperands(t *testing.T) {
	err := ValidateFilter(Combinator{Operator: LogicalAnd})
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_NotRequiresSingleOperand(t *testing.T) {
	err := ValidateFilter(Combinator{
		Operator: LogicalNot,
		Operands: []Filter{Eq("a", 1), Eq("b", 2)},
	})
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_NotWithOneOperand(t *testing.T) {
	if err := ValidateFilter(Not(Eq("archived", true))); err != nil {
		t.Errorf("expected valid filter, got %v", err)
	}
}

func TestValidateFilter_InRequiresSequence(t *testing.T) {
	err := ValidateFilter(Comparison{Field: "city", Operator: OpIn, Value: "London"})
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_InRejectsEmptySequence(t *testing.T) {
	err := ValidateFilter(Comparison{Field: "city", Operator: OpIn, Value: []any{}})
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestValidateFilter_NestedTree(t *testing.T) {
	filter := And(
		Eq("type", "article"),
		Or(
			Gte("likes", 100),
			Not(Eq("archived", true)),
		),
	)
	if err := ValidateFilter(filter); err != nil {
		t.Errorf("expected valid filter, got %v", err)
	}
}

func TestValidateFilter_InvalidNestedOperand(t *testing.T) {
	filter := And(
		Eq("type", "article"),
		Or(Eq("", "broken")),
	)
	err := ValidateFilter(filter)
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestSequenceValues_AnySlice(t *testing.T) {
	values, err := SequenceValues([]any{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 2 || values[0] != "a" || values[1] != "b" {
		t.Errorf("unexpected values: %v", values)
	}
}

func TestSequenceValues_TypedSlicePreservesOrder(t *testing.T) {
	values, err := SequenceValues([]int{3, 1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 3 || values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("expected [3 1 2], got %v", values)
	}
}

func TestSequenceValues_Scalar(t *testing.T) {
	_, err := SequenceValues(42)
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestSequenceValues_Nil(t *testing.T) {
	_, err := SequenceValues(nil)
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestIn_WrapsValuesAsSequence(t *testing.T) {
	filter := In("city", "London", "Berlin")
	comparison, ok := filter.(Comparison)
	if !ok {
		t.Fatalf("expected Comparison, got %T", filter)
	}
	if comparison.Operator != OpIn {
		t.Errorf("expected %q, got %q", OpIn, comparison.Operator)
	}
	values, err := SequenceValues(comparison.Value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("expected 2 values, got %d", len(values))
	}
}

func TestComparisonString_ElidesValue(t *testing.T) {
	s := Eq("city", "London").(Comparison).String()
	if s != "city == <value>" {
		t.Errorf("unexpected rendering %q", s)
	}
}

func TestFilterSyntaxError_WrapsSentinel(t *testing.T) {
	err := ValidateFilter(Eq("", nil))
	if !errors.Is(err, ErrFilterSyntax) {
		t.Errorf("expected ErrFilterSyntax in chain, got %v", err)
	}
}
