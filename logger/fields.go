package logger

// Standard field names for consistent structured logging across tlgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Schema input
	FieldSchema     = "schema"
	FieldStatement  = "statement"
	FieldLine       = "line"
	FieldDefinition = "definition"
	FieldType       = "type"
	FieldCategory   = "category"
	FieldNamespace  = "namespace"

	// Generation output
	FieldOutput   = "output"
	FieldLanguage = "language"
	FieldBytes    = "bytes"

	// Runtime
	FieldToken    = "token"
	FieldClientID = "client_id"
	FieldURL      = "url"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount      = "count"
	FieldErrorCount = "error_count"

	// Files
	FieldFile = "file"
)
