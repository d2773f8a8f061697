package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/fieldwork/internal/db"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// companyName reads and normalizes the {name} path value.
func companyName(r *http.Request) (string, error) {
	normalized := db.NormalizeName(r.PathValue("name"))
	if normalized == "" {
		return "", &ErrValidation{Field: "name", Message: "company name is required"}
	}
	return normalized, nil
}

// handleListCompanies lists every imported company
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context())
	if err != nil {
		s.failure(w, err)
		return
	}
	if companies == nil {
		companies = []db.Company{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"companies": companies,
		"count":     len(companies),
	})
}

// handleGetCompany retrieves a company by any spelling of its name
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	name, err := companyName(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	company, err := s.store.GetCompany(r.Context(), name)
	if err != nil {
		s.failure(w, err)
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusNotFound, "Company not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, company)
}

// handleCompanyCounts returns the posting, signal and tool row counts of a company
func (s *Server) handleCompanyCounts(w http.ResponseWriter, r *http.Request) {
	name, err := companyName(r)
	if err != nil {
		s.failure(w, err)
		return
	}

	counts, err := s.store.CountCompanyRows(r.Context(), name)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company": name,
		"counts":  counts,
	})
}

// handleListPostings lists the stored postings of a company, optionally
// filtered by function, with pagination
func (s *Server) handleListPostings(w http.ResponseWriter, r *http.Request) {
	name, err := companyName(r)
	if err != nil {
		s.failure(w, err)
		return
	}
	limit := parseQueryInt(r, "limit", 50, 500)
	offset := parseQueryInt(r, "offset", 0, 0)
	function := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("function")))

	loaded, err := s.store.LoadPostings(r.Context(), []string{name})
	if err != nil {
		s.failure(w, err)
		return
	}

	postings := make([]db.Posting, 0, len(loaded[name]))
	for _, p := range loaded[name] {
		if function == "" || p.Function == function {
			postings = append(postings, p)
		}
	}
	total := len(postings)
	start := min(offset, total)
	end := min(start+limit, total)

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"company":  name,
		"postings": postings[start:end],
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
