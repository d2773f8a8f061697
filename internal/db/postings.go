package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postingColumns = `id, company, company_name, external_id, source, source_url, title,
	description, department, location, locations, work_mode, is_remote, state, salary_min,
	salary_max, function, seniority, has_ai_mention, ai_terms, is_ai_native, posted_at, imported_at`

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// insertPosting writes one posting and its signal and tool rows through q,
// which is a transaction or a savepoint inside one.
func insertPosting(ctx context.Context, q pgx.Tx, p *Posting) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.ImportedAt.IsZero() {
		p.ImportedAt = time.Now().UTC()
	}

	batch := &pgx.Batch{}
	batch.Queue(
		`INSERT INTO postings (`+postingColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		p.ID, p.Company, p.CompanyName, p.ExternalID, p.Source, p.SourceURL, p.Title,
		p.Description, p.Department, p.Location, nonNil(p.Locations), p.WorkMode, p.IsRemote, p.State,
		p.SalaryMin, p.SalaryMax, p.Function, p.Seniority, p.HasAIMention, nonNil(p.AITerms),
		p.IsAINative, p.PostedAt, p.ImportedAt,
	)
	for _, s := range p.Signals {
		batch.Queue(`INSERT INTO signals (posting_id, signal_type, signal_value) VALUES ($1, $2, $3)`,
			p.ID, s.Type, s.Value)
	}
	for _, t := range p.Tools {
		batch.Queue(`INSERT INTO tools (posting_id, tool_name, tool_category) VALUES ($1, $2, $3)`,
			p.ID, t.Name, t.Category)
	}

	br := q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	return br.Close()
}

// InsertPosting stores one posting with its signal and tool rows in a single
// transaction. ErrDuplicatePosting is returned when the external id is
// already stored for the company.
func (db *DB) InsertPosting(ctx context.Context, p *Posting) error {
	err := db.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return insertPosting(ctx, tx, p)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s", ErrDuplicatePosting, p.Company, p.ExternalID)
		}
		return fmt.Errorf("failed to insert posting %s: %w", p.ExternalID, err)
	}
	return nil
}

// ReplaceCompanyPostings deletes every stored posting of company and inserts
// postings in the same transaction, each under its own savepoint. A posting
// that hits a unique violation is rolled back to its savepoint and counted as
// skipped; any other failure rolls back the whole replacement.
func (db *DB) ReplaceCompanyPostings(ctx context.Context, company string, postings []*Posting) (*ReplaceResult, error) {
	result := &ReplaceResult{}
	err := db.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM postings WHERE company = $1`, company)
		if err != nil {
			return fmt.Errorf("failed to delete postings of %s: %w", company, err)
		}
		result.Deleted = tag.RowsAffected()

		for _, p := range postings {
			sp, err := tx.Begin(ctx)
			if err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}
			if err := insertPosting(ctx, sp, p); err != nil {
				_ = sp.Rollback(ctx)
				if isUniqueViolation(err) {
					result.Skipped++
					continue
				}
				return fmt.Errorf("failed to insert posting %s: %w", p.ExternalID, err)
			}
			if err := sp.Commit(ctx); err != nil {
				return fmt.Errorf("failed to release savepoint: %w", err)
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExistingExternalIDs returns the external ids already stored for company.
func (db *DB) ExistingExternalIDs(ctx context.Context, company string) (map[string]bool, error) {
	rows, err := db.pool.Query(ctx, `SELECT external_id FROM postings WHERE company = $1`, company)
	if err != nil {
		return nil, fmt.Errorf("failed to list external ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan external ids: %w", err)
	}

	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

// CountCompanyRows counts the rows company owns in each table.
func (db *DB) CountCompanyRows(ctx context.Context, company string) (*RowCounts, error) {
	var c RowCounts
	err := db.pool.QueryRow(ctx,
		`SELECT
		     (SELECT count(*) FROM postings WHERE company = $1),
		     (SELECT count(*) FROM signals s JOIN postings p ON p.id = s.posting_id WHERE p.company = $1),
		     (SELECT count(*) FROM tools t JOIN postings p ON p.id = t.posting_id WHERE p.company = $1)`,
		company,
	).Scan(&c.Postings, &c.Signals, &c.Tools)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows of %s: %w", company, err)
	}
	return &c, nil
}
