package docstore

// DuplicatePolicy governs how a write call resolves an incoming document id
// that already exists in storage. It is supplied per write call and never
// persisted.
type DuplicatePolicy string

const (
	// DuplicateFail rejects the whole batch when any id already exists.
	// No document pending in that call is written. This is the default.
	DuplicateFail DuplicatePolicy = "fail"

	// DuplicateSkip leaves existing ids untouched and inserts the rest.
	// Skipped documents are excluded from the written count.
	DuplicateSkip DuplicatePolicy = "skip"

	// DuplicateOverwrite replaces existing ids in place. All fields are
	// overwritten, not merged.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

// Valid reports whether p is a known policy. The zero value is accepted and
// resolves to DuplicateFail.
func (p DuplicatePolicy) Valid() bool {
	switch p {
	case "", DuplicateFail, DuplicateSkip, DuplicateOverwrite:
		return true
	}
	return false
}

// Resolve maps the zero value to the default policy.
func (p DuplicatePolicy) Resolve() DuplicatePolicy {
	if p == "" {
		return DuplicateFail
	}
	return p
}
