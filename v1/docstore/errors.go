package docstore

import (
	"errors"
	"fmt"
)

// Common document store errors. Adapters wrap every failure in exactly one of
// these sentinels; backend-native errors never cross the adapter boundary.
var (
	// ErrInvalidConfiguration indicates missing or invalid store configuration:
	// unresolvable credentials, an empty endpoint, or an unsupported metadata
	// field type. Raised at construction or index-definition time.
	ErrInvalidConfiguration = errors.New("docstore: invalid configuration")

	// ErrFilterSyntax indicates a malformed filter expression. It is raised
	// before any backend call is issued.
	ErrFilterSyntax = errors.New("docstore: invalid filter syntax")

	// ErrDuplicateDocument is returned by WriteDocuments when a document id
	// already exists and the policy is DuplicateFail.
	ErrDuplicateDocument = errors.New("docstore: duplicate document id")

	// ErrStore wraps any backend execution failure: connectivity, integrity
	// violations not classified as duplicates, index build/drop failures.
	ErrStore = errors.New("docstore: store operation failed")

	// ErrInvalidArgument indicates a caller error such as an embedding
	// dimension mismatch or an empty required argument.
	ErrInvalidArgument = errors.New("docstore: invalid argument")
)

// ConfigurationErrorf wraps ErrInvalidConfiguration with a formatted message.
func ConfigurationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// FilterSyntaxErrorf wraps ErrFilterSyntax with a formatted message.
func FilterSyntaxErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFilterSyntax, fmt.Sprintf(format, args...))
}

// DuplicateDocumentErrorf wraps ErrDuplicateDocument with a formatted message.
func DuplicateDocumentErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicateDocument, fmt.Sprintf(format, args...))
}

// StoreErrorf wraps ErrStore with a formatted message. The message must be
// human-readable and redacted: raw backend error text may contain query text
// and parameter values and belongs in debug logs only.
func StoreErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStore, fmt.Sprintf(format, args...))
}

// InvalidArgumentErrorf wraps ErrInvalidArgument with a formatted message.
func InvalidArgumentErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsFilterSyntaxError checks if the error is a filter syntax error.
func IsFilterSyntaxError(err error) bool {
	return errors.Is(err, ErrFilterSyntax)
}

// IsDuplicateDocumentError checks if the error is a duplicate document error.
func IsDuplicateDocumentError(err error) bool {
	return errors.Is(err, ErrDuplicateDocument)
}

// IsStoreError checks if the error is a backend execution error.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStore)
}

// IsInvalidArgumentError checks if the error is a caller argument error.
func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
