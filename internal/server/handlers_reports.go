package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/fieldwork/internal/report"
)

// handleReport aggregates the comma-separated companies query parameter into
// a cross-company report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var companies []string
	for _, raw := range q["companies"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				companies = append(companies, name)
			}
		}
	}
	if len(companies) == 0 {
		s.failure(w, &ErrValidation{Field: "companies", Message: "at least one company is required"})
		return
	}

	filters := report.Filters{
		Function: q.Get("function"),
		TopN:     parseQueryInt(r, "top", report.DefaultTopN, 50),
	}

	rep, err := s.reports.Aggregate(r.Context(), companies, filters)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, rep)
}
