package docstore

import "testing"

func TestParseFieldKind(t *testing.T) {
	tests := []struct {
		input    string
		expected FieldKind
	}{
		{"text", FieldText},
		{"string", FieldText},
		{"boolean", FieldBoolean},
		{"bool", FieldBoolean},
		{"integer", FieldInteger},
		{"int", FieldInteger},
		{"float", FieldFloat},
		{"double", FieldFloat},
	}
	for _, tt := range tests {
		kind, err := ParseFieldKind(tt.input)
		if err != nil {
			t.Errorf("ParseFieldKind(%q) failed: %v", tt.input, err)
			continue
		}
		if kind != tt.expected {
			t.Errorf("ParseFieldKind(%q) = %v, want %v", tt.input, kind, tt.expected)
		}
	}
}

func TestParseFieldKind_Unknown(t *testing.T) {
	_, err := ParseFieldKind("timestamp")
	if !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestMetadataFields_Validate(t *testing.T) {
	fields := MetadataFields{"city": FieldText, "likes": FieldInteger}
	if err := fields.Validate(); err != nil {
		t.Errorf("expected valid declaration, got %v", err)
	}
}

func TestMetadataFields_ValidateRejectsUnknownKind(t *testing.T) {
	fields := MetadataFields{"city": FieldKind(42)}
	err := fields.Validate()
	if !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestMetadataFields_ValidateRejectsEmptyName(t *testing.T) {
	fields := MetadataFields{"": FieldText}
	err := fields.Validate()
	if !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestFieldKind_String(t *testing.T) {
	if FieldInteger.String() != "integer" {
		t.Errorf("expected 'integer', got %q", FieldInteger.String())
	}
	if FieldKind(42).Valid() {
		t.Error("out-of-range kind should be invalid")
	}
}
