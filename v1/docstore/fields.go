package docstore

import "fmt"

// FieldKind is the closed set of metadata value types a store can index.
// Each backend maps every kind to a native field type with an exhaustive
// switch; adding a kind is a compile-time-visible change, never a runtime
// dictionary miss.
type FieldKind int

const (
	// FieldText holds string values, filtered by exact match.
	FieldText FieldKind = iota
	// FieldBoolean holds true/false values.
	FieldBoolean
	// FieldInteger holds 32-bit signed integer values.
	FieldInteger
	// FieldFloat holds 64-bit floating point values.
	FieldFloat
)

// String returns the kind name used in configuration files.
func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldBoolean:
		return "boolean"
	case FieldInteger:
		return "integer"
	case FieldFloat:
		return "float"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// Valid reports whether k is one of the supported kinds.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldText, FieldBoolean, FieldInteger, FieldFloat:
		return true
	}
	return false
}

// ParseFieldKind converts a configuration string to a FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "text", "string":
		return FieldText, nil
	case "boolean", "bool":
		return FieldBoolean, nil
	case "integer", "int":
		return FieldInteger, nil
	case "float", "double":
		return FieldFloat, nil
	}
	return 0, ConfigurationErrorf("unsupported metadata field type %q", s)
}

// UnmarshalYAML decodes a FieldKind from its configuration string.
func (k *FieldKind) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	kind, err := ParseFieldKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MetadataFields declares the metadata schema of a store: field name to kind.
// Backends that maintain one physical field per metadata key (searchindex)
// require a declaration for every filterable key; the relational backend
// stores the full map in a single JSON column and does not.
type MetadataFields map[string]FieldKind

// Validate fails fast on any field outside the closed kind set.
func (m MetadataFields) Validate() error {
	for name, kind := range m {
		if name == "" {
			return ConfigurationErrorf("metadata field with empty name")
		}
		if !kind.Valid() {
			return ConfigurationErrorf("unsupported field type for key %q: %v", name, kind)
		}
	}
	return nil
}
