package logger

// Standard field names for consistent structured logging across cxxbind.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Run identity
	FieldRunID = "run_id"

	// AST locations
	FieldLibrary = "library"
	FieldUnit    = "unit"
	FieldDecl    = "decl"
	FieldKind    = "kind"
	FieldMacro   = "macro"
	FieldPattern = "pattern"

	// Translation outcomes
	FieldConstruct = "construct"
	FieldReason    = "reason"
	FieldTypeMap   = "typemap"

	// Errors
	FieldError = "error"

	// Counts and timing
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"

	// Files
	FieldFile = "file"
)
