package importer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many companies a batch imports at once.
const DefaultConcurrency = 4

// BatchResult is the outcome of one company in a batch.
type BatchResult struct {
	Request Request  `json:"request"`
	Summary *Summary `json:"summary,omitempty"`
	Err     error    `json:"-"`
	Error   string   `json:"error,omitempty"`
}

// RunBatch imports every company of the manifest with at most concurrency
// imports in flight. A failing company does not cancel the others. Results
// keep manifest order.
func (imp *Importer) RunBatch(ctx context.Context, m *Manifest, concurrency int) ([]BatchResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]BatchResult, len(m.Companies))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, req := range m.Companies {
		results[i].Request = req
		g.Go(func() error {
			summary, err := imp.Import(ctx, req)
			results[i].Summary = summary
			if err != nil {
				results[i].Err = err
				results[i].Error = err.Error()
				imp.logger.ErrorContext(ctx, "company import failed", "company", req.Company, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// Failed counts results with an error.
func Failed(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
