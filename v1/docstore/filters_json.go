package docstore

import (
	"encoding/json"
)

// ParseFilterJSON decodes a filter expression from its JSON wire format.
//
// A comparison is an object with "field", "operator" and "value" keys; a
// combinator is an object with "logical_operator" and "operands" keys. An
// object carrying neither "operator" nor "logical_operator" is rejected with
// ErrFilterSyntax before touching any backend, as is an object carrying both.
// The decoded tree is validated before it is returned.
func ParseFilterJSON(data []byte) (Filter, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, FilterSyntaxErrorf("filter must be a JSON object: %v", err)
	}

	_, hasOperator := raw["operator"]
	_, hasLogical := raw["logical_operator"]

	switch {
	case hasOperator && hasLogical:
		return nil, FilterSyntaxErrorf("filter node cannot carry both 'operator' and 'logical_operator'")
	case hasOperator:
		return parseComparison(raw)
	case hasLogical:
		return parseCombinator(raw)
	default:
		return nil, FilterSyntaxErrorf("filter node must carry either 'operator' or 'logical_operator'")
	}
}

func parseComparison(raw map[string]json.RawMessage) (Filter, error) {
	var node Comparison
	if err := unmarshalField(raw, "field", &node.Field); err != nil {
		return nil, err
	}
	if err := unmarshalField(raw, "operator", &node.Operator); err != nil {
		return nil, err
	}
	if valueRaw, ok := raw["value"]; ok {
		if err := json.Unmarshal(valueRaw, &node.Value); err != nil {
			return nil, FilterSyntaxErrorf("invalid comparison value: %v", err)
		}
	}
	if err := ValidateFilter(node); err != nil {
		return nil, err
	}
	return node, nil
}

func parseCombinator(raw map[string]json.RawMessage) (Filter, error) {
	var node Combinator
	if err := unmarshalField(raw, "logical_operator", &node.Operator); err != nil {
		return nil, err
	}
	operandsRaw, ok := raw["operands"]
	if !ok {
		return nil, FilterSyntaxErrorf("combinator requires an 'operands' array")
	}
	var operands []json.RawMessage
	if err := json.Unmarshal(operandsRaw, &operands); err != nil {
		return nil, FilterSyntaxErrorf("'operands' must be an array: %v", err)
	}
	node.Operands = make([]Filter, 0, len(operands))
	for _, operandRaw := range operands {
		operand, err := ParseFilterJSON(operandRaw)
		if err != nil {
			return nil, err
		}
		node.Operands = append(node.Operands, operand)
	}
	if err := ValidateFilter(node); err != nil {
		return nil, err
	}
	return node, nil
}

func unmarshalField(raw map[string]json.RawMessage, key string, dest any) error {
	fieldRaw, ok := raw[key]
	if !ok {
		return FilterSyntaxErrorf("filter node is missing %q", key)
	}
	if err := json.Unmarshal(fieldRaw, dest); err != nil {
		return FilterSyntaxErrorf("invalid %q: %v", key, err)
	}
	return nil
}
