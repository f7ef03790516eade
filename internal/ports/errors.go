package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrNotFound           = errors.New("resource not found")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Ingestion Errors
	ErrNotTabular        = errors.New("input is not tabular")
	ErrMissingColumns    = errors.New("required columns are missing")
	ErrSourceUnavailable = errors.New("trade source is unavailable")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
