// Package errors provides structured error types for the native bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: host field path, Go/host type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTypeMismatch).
//		Path("PostParserContext", "threadId").
//		HostType("J").
//		Detail("field declared as %s", "Ljava/lang/String;").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.FieldMissing(errors.PhaseDecode, path, "threadId")
//	err := errors.HostConstruction(errors.PhaseEncode, path, "PostDescriptor", cause)
//
// The kinds map onto the boundary error taxonomy:
//
//	field_missing      required host field absent or null
//	type_mismatch      host field has another signature
//	invalid_utf8       host string is not valid Unicode
//	host_construction  class lookup, instantiation or field assignment failed
//	internal_fault     unexpected native fault captured at the boundary
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
