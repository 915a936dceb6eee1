// Package errors provides a comprehensive error handling solution for the cultivation-api project.
//
// This package is inspired by the goaterr pattern and provides:
//   - Structured errors with codes, messages, and metadata
//   - HTTP status mapping for every code
//   - User-friendly error messages
//   - Error context preservation through wrapping
//   - Validation error helpers
//   - Type-safe error checking
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.NotFound("character not found")
//	err := errors.InvalidArgumentf("invalid beast position: %d", position)
//
// Adding metadata:
//
//	err := errors.NotFound("character not found").
//	    WithMeta("user_id", userID)
//
// Wrapping errors:
//
//	if err := repo.Get(id); err != nil {
//	    return errors.Wrap(err, "failed to get character")
//	}
//
// Changing error semantics:
//
//	if err := db.Query(); err != nil {
//	    if isNotFound(err) {
//	        return errors.WrapWithCode(err, errors.CodeNotFound, "character not found")
//	    }
//	    return errors.Wrap(err, "database error")
//	}
//
// # Error Checking
//
// Type checking:
//
//	if errors.IsNotFound(err) {
//	    // Handle not found case
//	}
//
// Extracting information:
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//	meta := errors.GetMeta(err)
//
// # Validation Errors
//
// Using the validation builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateRange("duration_hours", input.DurationHours, 1, 24, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// # Layer-Specific Guidelines
//
// Repository layer:
//   - Return domain-specific errors (NotFound, AlreadyExists)
//   - Include relevant IDs in metadata
//   - Wrap storage errors with context
//
// Service/Orchestrator layer:
//   - Validate inputs and return InvalidArgument errors
//   - Check preconditions and return FailedPrecondition errors
//   - Wrap repository errors with business context
//
// Handler layer:
//   - Map codes to HTTP statuses via Code.HTTPStatus
//   - Extract user-friendly messages
//   - Log internal errors for debugging
//
// # Error Codes
//
// The following error codes are available:
//   - NotFound: Resource not found
//   - InvalidArgument: Invalid input provided
//   - AlreadyExists: Resource already exists
//   - PermissionDenied: Insufficient permissions
//   - Internal: Internal server error
//   - Unavailable: Service temporarily unavailable
//   - Unauthenticated: Authentication required
//   - FailedPrecondition: Operation requirements not met
package errors
