package wxdex

import "errors"

// Sentinel errors for the six categories spec.md §7 names. Catalog
// methods wrap one of these with fmt.Errorf's %w so a caller can
// errors.Is against the category without parsing a message.
var (
	// ErrTransport covers an HTTP send/receive failure against the
	// vendor site. It fails the current listing page or detail fetch
	// and propagates up; it never poisons the on-disk cache.
	ErrTransport = errors.New("wxdex: transport error")

	// ErrParse covers a missing expected DOM node or an unresolved
	// card-type during analysis. The raw row's analysis_error is set
	// and is_analyzed stays false for retry on a later pass.
	ErrParse = errors.New("wxdex: parse error")

	// ErrIO covers a cache read/write or other filesystem failure. It
	// is fatal for the in-progress unit; the cache layer is idempotent
	// so the next invocation retries cleanly.
	ErrIO = errors.New("wxdex: io error")

	// ErrPersistence covers a database upsert failure. Callers that
	// batch over many cards collect these per-card rather than
	// aborting the batch.
	ErrPersistence = errors.New("wxdex: persistence error")

	// ErrOverride covers a malformed admin feature-override row. A
	// missing override is not an error (analyzer output stands); this
	// is only for a row that exists but can't be applied.
	ErrOverride = errors.New("wxdex: override application error")

	// ErrUserInput covers malformed caller input, such as an unknown
	// product kind passed to Cache. Unknown feature labels and color
	// characters in a filter are not errors — they're silently ignored,
	// contributing no bits.
	ErrUserInput = errors.New("wxdex: invalid user input")
)

// ErrNotConfigured is returned by the package-level Cache/Analyze/
// Filter/Search helpers when no Catalog has been configured yet and
// the default instance can't be built (config.Load failed, most
// commonly a missing upstream base URL).
var ErrNotConfigured = errors.New("wxdex: catalog is not configured")
