package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName converts a company name to the identifier postings are keyed by.
// Example: "Affirm, Inc." -> "affirminc"
func NormalizeName(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}

const companyColumns = `id, name, name_normalized, website_url, industry, board_slug,
	total_job_postings, created_at, updated_at`

func scanCompany(row pgx.Row) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.NameNormalized, &c.WebsiteURL, &c.Industry, &c.BoardSlug,
		&c.TotalJobPostings, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// UpsertCompany creates or refreshes the companies row and recounts its
// postings. Empty optional fields keep their stored values.
func (db *DB) UpsertCompany(ctx context.Context, in CompanyInput) (*Company, error) {
	normalized := NormalizeName(in.Name)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	c, err := scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (id, name, name_normalized, website_url, industry, board_slug, total_job_postings)
		 VALUES ($1, $2, $3, $4, $5, $6, (SELECT count(*) FROM postings WHERE company = $3))
		 ON CONFLICT (name_normalized) DO UPDATE SET
		     name = EXCLUDED.name,
		     website_url = COALESCE(EXCLUDED.website_url, companies.website_url),
		     industry = COALESCE(EXCLUDED.industry, companies.industry),
		     board_slug = COALESCE(EXCLUDED.board_slug, companies.board_slug),
		     total_job_postings = EXCLUDED.total_job_postings,
		     updated_at = now()
		 RETURNING `+companyColumns,
		uuid.New(), in.Name, normalized, nullable(in.WebsiteURL), nullable(in.Industry), nullable(in.BoardSlug),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert company %s: %w", in.Name, err)
	}
	return c, nil
}

// GetCompany retrieves a company by any spelling of its name.
func (db *DB) GetCompany(ctx context.Context, name string) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name_normalized = $1`,
		NormalizeName(name),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// ListCompanies returns every imported company ordered by normalized name.
func (db *DB) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY name_normalized`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}
