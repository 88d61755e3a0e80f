package apperr

// Predefined sentinels for the five error kinds in the documented error taxonomy. Handlers
// compare against these with errors.Is, or build request-specific
// variants with WithMessage/WithDetail.
var (
	// ErrMalformedFilter indicates the filters query parameter was not
	// a valid JSON object, or a value was neither a string nor an array
	// of strings. An unrecognized key is reported as ErrUnknownField.
	ErrMalformedFilter = &Error{Category: CategoryInvalidArgument, Code: "MALFORMED_FILTER", Message: "malformed filter expression"}

	// ErrMissingField indicates a required query parameter is absent.
	ErrMissingField = &Error{Category: CategoryInvalidArgument, Code: "MISSING_FIELD", Message: "required field is missing"}

	// ErrOutOfRange indicates a numeric parameter (page, limit) is out
	// of its allowed range.
	ErrOutOfRange = &Error{Category: CategoryInvalidArgument, Code: "OUT_OF_RANGE", Message: "value out of valid range"}

	// ErrUnknownField indicates a dimension/field name is not a
	// recognized column.
	ErrUnknownField = &Error{Category: CategoryInvalidArgument, Code: "UNKNOWN_FIELD", Message: "unknown field name"}

	// ErrDatasetNotFound indicates the path dataset id has no catalog entry.
	ErrDatasetNotFound = &Error{Category: CategoryNotFound, Code: "DATASET_NOT_FOUND", Message: "dataset not found"}

	// ErrAgentNotFound indicates the requested registration number has
	// no rows.
	ErrAgentNotFound = &Error{Category: CategoryNotFound, Code: "AGENT_NOT_FOUND", Message: "agent not found"}

	// ErrNotModified signals the cached validator still matches; the
	// handler must omit the body.
	ErrNotModified = &Error{Category: CategoryNotModified, Code: "NOT_MODIFIED", Message: "not modified"}

	// ErrQueryBudgetExceeded indicates the per-request wall-clock
	// budget elapsed before the aggregation completed.
	ErrQueryBudgetExceeded = &Error{Category: CategoryTimeout, Code: "QUERY_TIMEOUT", Message: "query exceeded budget"}

	// ErrInternal is the catch-all for store exceptions and
	// serialization failures.
	ErrInternal = &Error{Category: CategoryInternal, Code: "INTERNAL_ERROR", Message: "internal error"}
)
