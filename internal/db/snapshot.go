package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Snapshot reads committed data through one repeatable-read, read-only
// transaction, so every query sees the same state.
type Snapshot struct {
	tx pgx.Tx
}

// ReadSnapshot runs fn against a consistent view of the store.
func (db *DB) ReadSnapshot(ctx context.Context, fn func(*Snapshot) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return db.withTx(ctx, opts, func(tx pgx.Tx) error {
		return fn(&Snapshot{tx: tx})
	})
}

// LoadPostings loads the postings of each company (by normalized name) from a
// single snapshot. Companies without postings map to an empty slice.
func (db *DB) LoadPostings(ctx context.Context, companies []string) (map[string][]Posting, error) {
	out := make(map[string][]Posting, len(companies))
	err := db.ReadSnapshot(ctx, func(s *Snapshot) error {
		for _, company := range companies {
			postings, err := s.LoadCompanyPostings(ctx, company)
			if err != nil {
				return err
			}
			out[company] = postings
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCompanyPostings returns every posting of company with its signal and
// tool rows, ordered by external id.
func (s *Snapshot) LoadCompanyPostings(ctx context.Context, company string) ([]Posting, error) {
	rows, err := s.tx.Query(ctx,
		`SELECT `+postingColumns+` FROM postings WHERE company = $1 ORDER BY external_id`, company)
	if err != nil {
		return nil, fmt.Errorf("failed to load postings of %s: %w", company, err)
	}
	postings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Posting, error) {
		var p Posting
		err := row.Scan(&p.ID, &p.Company, &p.CompanyName, &p.ExternalID, &p.Source, &p.SourceURL,
			&p.Title, &p.Description, &p.Department, &p.Location, &p.Locations, &p.WorkMode,
			&p.IsRemote, &p.State, &p.SalaryMin, &p.SalaryMax, &p.Function, &p.Seniority,
			&p.HasAIMention, &p.AITerms, &p.IsAINative, &p.PostedAt, &p.ImportedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan postings of %s: %w", company, err)
	}

	index := make(map[uuid.UUID]int, len(postings))
	for i := range postings {
		index[postings[i].ID] = i
	}

	signalRows, err := s.tx.Query(ctx,
		`SELECT s.posting_id, s.signal_type, s.signal_value
		 FROM signals s JOIN postings p ON p.id = s.posting_id
		 WHERE p.company = $1 ORDER BY s.posting_id, s.signal_type, s.signal_value`, company)
	if err != nil {
		return nil, fmt.Errorf("failed to load signals of %s: %w", company, err)
	}
	defer signalRows.Close()
	for signalRows.Next() {
		var id uuid.UUID
		var row SignalRow
		if err := signalRows.Scan(&id, &row.Type, &row.Value); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		if i, ok := index[id]; ok {
			postings[i].Signals = append(postings[i].Signals, row)
		}
	}
	if err := signalRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load signals of %s: %w", company, err)
	}

	toolRows, err := s.tx.Query(ctx,
		`SELECT t.posting_id, t.tool_name, t.tool_category
		 FROM tools t JOIN postings p ON p.id = t.posting_id
		 WHERE p.company = $1 ORDER BY t.posting_id, t.tool_name`, company)
	if err != nil {
		return nil, fmt.Errorf("failed to load tools of %s: %w", company, err)
	}
	defer toolRows.Close()
	for toolRows.Next() {
		var id uuid.UUID
		var row ToolRow
		if err := toolRows.Scan(&id, &row.Name, &row.Category); err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		if i, ok := index[id]; ok {
			postings[i].Tools = append(postings[i].Tools, row)
		}
	}
	if err := toolRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load tools of %s: %w", company, err)
	}

	return postings, nil
}
