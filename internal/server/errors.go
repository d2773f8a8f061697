package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/fieldwork/internal/observability"
	"github.com/jonathan/fieldwork/internal/report"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var verr *ErrValidation
	if errors.As(err, &verr) || errors.Is(err, report.ErrNoCompanies) {
		return http.StatusBadRequest
	}
	switch observability.Classify(err) {
	case "":
		return http.StatusOK
	case observability.ClassValidation:
		return http.StatusBadRequest
	case observability.ClassTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// failure writes err with the status HTTPStatus picks. Server errors are
// logged and answered without detail.
func (s *Server) failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "class", observability.Classify(err))
		s.errorResponse(w, status, http.StatusText(status))
		return
	}
	s.errorResponse(w, status, err.Error())
}
