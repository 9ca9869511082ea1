package docstore

import (
	"testing"
)

func TestParseFilterJSON_Comparison(t *testing.T) {
	filter, err := ParseFilterJSON([]byte(`{"field": "meta.type", "operator": "==", "value": "article"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	comparison, ok := filter.(Comparison)
	if !ok {
		t.Fatalf("expected Comparison, got %T", filter)
	}
	if comparison.Field != "meta.type" {
		t.Errorf("expected field 'meta.type', got %q", comparison.Field)
	}
	if comparison.Operator != OpEq {
		t.Errorf("expected operator %q, got %q", OpEq, comparison.Operator)
	}
	if comparison.Value != "article" {
		t.Errorf("expected value 'article', got %v", comparison.Value)
	}
}

func TestParseFilterJSON_NestedCombinator(t *testing.T) {
	payload := `{
		"logical_operator": "AND",
		"operands": [
			{"field": "type", "operator": "==", "value": "article"},
			{
				"logical_operator": "OR",
				"operands": [
					{"field": "likes", "operator": ">=", "value": 100},
					{"field": "popular", "operator": "==", "value": true}
				]
			}
		]
	}`
	filter, err := ParseFilterJSON([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	combinator, ok := filter.(Combinator)
	if !ok {
		t.Fatalf("expected Combinator, got %T", filter)
	}
	if combinator.Operator != LogicalAnd {
		t.Errorf("expected AND, got %q", combinator.Operator)
	}
	if len(combinator.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(combinator.Operands))
	}
	inner, ok := combinator.Operands[1].(Combinator)
	if !ok {
		t.Fatalf("expected nested Combinator, got %T", combinator.Operands[1])
	}
	if inner.Operator != LogicalOr {
		t.Errorf("expected OR, got %q", inner.Operator)
	}
}

func TestParseFilterJSON_RejectsNodeWithoutDiscriminator(t *testing.T) {
	_, err := ParseFilterJSON([]byte(`{"field": "type", "value": "article"}`))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestParseFilterJSON_RejectsNodeWithBothDiscriminators(t *testing.T) {
	_, err := ParseFilterJSON([]byte(`{"field": "type", "operator": "==", "logical_operator": "AND", "value": 1}`))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestParseFilterJSON_RejectsNonObject(t *testing.T) {
	_, err := ParseFilterJSON([]byte(`["not", "an", "object"]`))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestParseFilterJSON_RejectsMissingOperands(t *testing.T) {
	_, err := ParseFilterJSON([]byte(`{"logical_operator": "AND"}`))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestParseFilterJSON_RejectsMalformedOperand(t *testing.T) {
	payload := `{
		"logical_operator": "NOT",
		"operands": [{"field": "type", "value": "article"}]
	}`
	_, err := ParseFilterJSON([]byte(payload))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestParseFilterJSON_RejectsUnknownOperator(t *testing.T) {
	_, err := ParseFilterJSON([]byte(`{"field": "type", "operator": "like", "value": "art%"}`))
	if !IsFilterSyntaxError(err) {
		t.Errorf("expected filter syntax error, got %v", err)
	}
}

func TestParseFilterJSON_InOperatorWithArray(t *testing.T) {
	filter, err := ParseFilterJSON([]byte(`{"field": "city", "operator": "in", "value": ["London", "Berlin"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values, err := SequenceValues(filter.(Comparison).Value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(values) != 2 || values[0] != "London" || values[1] != "Berlin" {
		t.Errorf("unexpected values: %v", values)
	}
}

func TestParseFilterJSON_NullValue(t *testing.T) {
	filter, err := ParseFilterJSON([]byte(`{"field": "deleted_at", "operator": "==", "value": null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.(Comparison).Value != nil {
		t.Errorf("expected nil value, got %v", filter.(Comparison).Value)
	}
}
