// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeMissingDependency,
//	    "torch requirement not found",
//	    cause,
//	    map[string]interface{}{
//	        "files": requirementFiles,
//	    },
//	)
package errors
