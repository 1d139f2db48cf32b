package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError = "error"
	FieldCause = "cause"

	// Dump fields.
	FieldFormatVersion = "format_version"
	FieldRoot          = "root"
	FieldItems         = "items"

	// Resolution fields.
	FieldLink    = "link"
	FieldItem    = "item"
	FieldKind    = "kind"
	FieldPackage = "package"
	FieldVersion = "version"
	FieldURL     = "url"

	// Rewrite fields.
	FieldHeadingShrink = "heading_shrink"
	FieldFenceInfo     = "fence_info"
	FieldLanguage      = "language"

	// Statistics fields.
	FieldLinksResolved = "links_resolved"
	FieldLinksFailed   = "links_failed"
	FieldDiagnostics   = "diagnostics"
)
