package db

import (
	"time"

	"github.com/google/uuid"
)

// SourceGreenhouse tags postings imported from a Greenhouse board.
const SourceGreenhouse = "greenhouse"

// Company is one row of the companies table.
type Company struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	NameNormalized   string    `json:"name_normalized"`
	WebsiteURL       *string   `json:"website_url,omitempty"`
	Industry         *string   `json:"industry,omitempty"`
	BoardSlug        *string   `json:"board_slug,omitempty"`
	TotalJobPostings int       `json:"total_job_postings"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompanyInput holds the fields written by UpsertCompany.
type CompanyInput struct {
	Name       string
	WebsiteURL string
	Industry   string
	BoardSlug  string
}

// SignalRow is one (signal_type, signal_value) pair, sentinels included.
type SignalRow struct {
	Type  string `json:"signal_type"`
	Value string `json:"signal_value"`
}

// ToolRow is one (tool_name, tool_category) pair, sentinels included.
type ToolRow struct {
	Name     string `json:"tool_name"`
	Category string `json:"tool_category"`
}

// Posting is a stored posting with its signal and tool rows.
type Posting struct {
	ID           uuid.UUID  `json:"id"`
	Company      string     `json:"company"`
	CompanyName  string     `json:"company_name"`
	ExternalID   string     `json:"external_id"`
	Source       string     `json:"source"`
	SourceURL    string     `json:"source_url"`
	Title        string     `json:"title"`
	Description  string     `json:"-"`
	Department   string     `json:"department"`
	Location     string     `json:"location"`
	Locations    []string   `json:"locations"`
	WorkMode     string     `json:"work_mode"`
	IsRemote     bool       `json:"is_remote"`
	State        string     `json:"state"`
	SalaryMin    *float64   `json:"salary_min"`
	SalaryMax    *float64   `json:"salary_max"`
	Function     string     `json:"function"`
	Seniority    string     `json:"seniority"`
	HasAIMention bool       `json:"has_ai_mention"`
	AITerms      []string   `json:"ai_terms"`
	IsAINative   bool       `json:"is_ai_native"`
	PostedAt     *time.Time `json:"posted_at"`
	ImportedAt   time.Time  `json:"imported_at"`

	Signals []SignalRow `json:"signals"`
	Tools   []ToolRow   `json:"tools"`
}

// ReplaceResult reports what a reimport changed.
type ReplaceResult struct {
	Deleted  int64
	Inserted int
	Skipped  int
}

// RowCounts is the number of rows a company owns in each table.
type RowCounts struct {
	Postings int `json:"postings"`
	Signals  int `json:"signals"`
	Tools    int `json:"tools"`
}
