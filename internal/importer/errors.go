package importer

import "fmt"

// ValidationError reports a bad import request or manifest.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// StoreError reports a store failure that aborted an import. Postings
// committed before the failure remain stored.
type StoreError struct {
	Company    string
	ExternalID string
	Message    string
	Cause      error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("store error for %s: %s", e.Company, e.Message)
	if e.ExternalID != "" {
		msg = fmt.Sprintf("store error for %s posting %s: %s", e.Company, e.ExternalID, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
