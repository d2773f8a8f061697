package observability

import (
	"errors"

	"github.com/jonathan/fieldwork/internal/db"
	"github.com/jonathan/fieldwork/internal/fetch"
	"github.com/jonathan/fieldwork/internal/history"
	"github.com/jonathan/fieldwork/internal/importer"
)

// Error classes used in logs and run summaries.
const (
	ClassTransport  = "transport"
	ClassParse      = "parse"
	ClassStore      = "store"
	ClassValidation = "validation"
	ClassUnknown    = "unknown"
)

// Classify names the class of an error. A nil error has no class.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *importer.ValidationError
	if errors.As(err, &validationErr) {
		return ClassValidation
	}

	var storeErr *importer.StoreError
	if errors.As(err, &storeErr) || db.IsStoreError(err) ||
		errors.Is(err, db.ErrCompanyLocked) || errors.Is(err, db.ErrDuplicatePosting) {
		return ClassStore
	}

	var parseErr *history.ParseError
	if errors.As(err, &parseErr) || errors.Is(err, history.ErrUnrecognizedPage) || fetch.IsDecode(err) {
		return ClassParse
	}

	if fetch.IsTransport(err) {
		return ClassTransport
	}
	return ClassUnknown
}
