package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jonathan/fieldwork/internal/db"
	"github.com/jonathan/fieldwork/internal/fetch"
	"github.com/jonathan/fieldwork/internal/greenhouse"
	"github.com/jonathan/fieldwork/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBoard struct {
	mock.Mock
}

func (m *mockBoard) ListJobs(ctx context.Context, slug string) (*greenhouse.Listing, error) {
	args := m.Called(ctx, slug)
	listing, _ := args.Get(0).(*greenhouse.Listing)
	return listing, args.Error(1)
}

type fakeStore struct {
	mu         sync.Mutex
	postings   map[string]map[string]*db.Posting
	companies  map[string]db.CompanyInput
	lockErr    error
	replaceErr error
	// failAfter makes InsertPosting fail once this many inserts succeeded; -1 disables.
	failAfter int
	racing    map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		postings:  map[string]map[string]*db.Posting{},
		companies: map[string]db.CompanyInput{},
		failAfter: -1,
		racing:    map[string]bool{},
	}
}

func (f *fakeStore) LockCompany(_ context.Context, _ string) (*db.CompanyLock, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	return &db.CompanyLock{}, nil
}

func (f *fakeStore) ExistingExternalIDs(_ context.Context, company string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := map[string]bool{}
	for id := range f.postings[company] {
		ids[id] = true
	}
	return ids, nil
}

func (f *fakeStore) InsertPosting(_ context.Context, p *db.Posting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.racing[p.ExternalID] {
		return fmt.Errorf("%w: %s", db.ErrDuplicatePosting, p.ExternalID)
	}
	if f.failAfter >= 0 && f.count(p.Company) >= f.failAfter {
		return errors.New("connection reset")
	}
	if f.postings[p.Company] == nil {
		f.postings[p.Company] = map[string]*db.Posting{}
	}
	f.postings[p.Company][p.ExternalID] = p
	return nil
}

func (f *fakeStore) ReplaceCompanyPostings(_ context.Context, company string, postings []*db.Posting) (*db.ReplaceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	result := &db.ReplaceResult{Deleted: int64(len(f.postings[company]))}
	f.postings[company] = map[string]*db.Posting{}
	for _, p := range postings {
		if _, ok := f.postings[company][p.ExternalID]; ok {
			result.Skipped++
			continue
		}
		f.postings[company][p.ExternalID] = p
		result.Inserted++
	}
	return result, nil
}

func (f *fakeStore) UpsertCompany(_ context.Context, in db.CompanyInput) (*db.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companies[db.NormalizeName(in.Name)] = in
	return &db.Company{Name: in.Name, NameNormalized: db.NormalizeName(in.Name)}, nil
}

func (f *fakeStore) count(company string) int {
	return len(f.postings[company])
}

func testJobs() []greenhouse.Job {
	return []greenhouse.Job{
		{
			ID:       101,
			Title:    "VP of Sales",
			Content:  "&lt;p&gt;We are building our first sales team, reporting to the CRO. Remote-first.&lt;/p&gt;",
			Location: greenhouse.NamedEntity{Name: "Remote"},
		},
		{
			ID:          102,
			Title:       "Senior Software Engineer",
			Content:     "<p>We use Python and PostgreSQL.</p>",
			Departments: []greenhouse.NamedEntity{{Name: "Engineering"}},
			Offices:     []greenhouse.NamedEntity{{Name: "San Francisco, CA"}},
			PayInputRanges: []greenhouse.PayInputRange{
				{MinCents: 18000000, MaxCents: 24000000, CurrencyType: "USD"},
			},
		},
		{
			ID:    103,
			Title: "Account Executive",
		},
	}
}

func boardWith(jobs []greenhouse.Job) *mockBoard {
	b := &mockBoard{}
	b.On("ListJobs", mock.Anything, "acme").Return(&greenhouse.Listing{Board: "acme", Jobs: jobs, Duplicates: 1}, nil)
	return b
}

func acmeRequest() Request {
	return Request{Board: "https://boards.greenhouse.io/acme", Company: "Acme, Inc.", Industry: "Software"}
}

func TestImport_InsertsAndSummarizes(t *testing.T) {
	store := newFakeStore()
	imp := New(boardWith(testJobs()), store, nil, nil)

	summary, err := imp.Import(context.Background(), acmeRequest())
	require.NoError(t, err)

	assert.Equal(t, "acme", summary.Board)
	assert.Equal(t, 3, summary.Fetched)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 3, summary.Inserted)
	assert.Zero(t, summary.Skipped)
	assert.Equal(t, 2, summary.Tools)
	assert.Equal(t, 2, summary.ToolSentinels)
	assert.Equal(t, 3*len(taxonomy.Default().SignalTypes()), summary.SignalSentinels+countAxesCovered(store, "acmeinc"))
	assert.Equal(t, 3, summary.Stats.Postings)
	assert.Equal(t, 1, summary.Stats.SalaryDisclosed)

	require.Len(t, store.postings["acmeinc"], 3)
	eng := store.postings["acmeinc"]["102"]
	assert.Equal(t, "engineering", eng.Function)
	assert.Equal(t, "senior", eng.Seniority)
	assert.Equal(t, "San Francisco, CA", eng.Location)
	require.NotNil(t, eng.SalaryMin)
	assert.Equal(t, 180000.0, *eng.SalaryMin)
	assert.Equal(t, db.SourceGreenhouse, eng.Source)

	vp := store.postings["acmeinc"]["101"]
	assert.True(t, vp.IsRemote)
	assert.Equal(t, "vp", vp.Seniority)

	assert.Equal(t, "Software", store.companies["acmeinc"].Industry)
	assert.Equal(t, "acme", store.companies["acmeinc"].BoardSlug)
}

// countAxesCovered counts (posting, axis) pairs with a real signal.
func countAxesCovered(store *fakeStore, company string) int {
	n := 0
	for _, p := range store.postings[company] {
		axes := map[string]bool{}
		for _, s := range p.Signals {
			if s.Value != taxonomy.None {
				axes[s.Type] = true
			}
		}
		n += len(axes)
	}
	return n
}

func TestImport_EveryAxisHasARow(t *testing.T) {
	store := newFakeStore()
	_, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), acmeRequest())
	require.NoError(t, err)

	for id, p := range store.postings["acmeinc"] {
		axes := map[string]bool{}
		for _, s := range p.Signals {
			axes[s.Type] = true
		}
		assert.Len(t, axes, len(taxonomy.Default().SignalTypes()), id)
		assert.NotEmpty(t, p.Tools, id)
	}
}

func TestImport_RerunIsIdempotent(t *testing.T) {
	store := newFakeStore()
	imp := New(boardWith(testJobs()), store, nil, nil)

	_, err := imp.Import(context.Background(), acmeRequest())
	require.NoError(t, err)

	summary, err := imp.Import(context.Background(), acmeRequest())
	require.NoError(t, err)
	assert.Zero(t, summary.Inserted)
	assert.Equal(t, 3, summary.Skipped)
	assert.Len(t, store.postings["acmeinc"], 3)
}

func TestImport_Reimport(t *testing.T) {
	store := newFakeStore()
	_, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), acmeRequest())
	require.NoError(t, err)

	imp := New(boardWith(testJobs()[:2]), store, nil, nil)
	req := acmeRequest()
	req.Reimport = true
	summary, err := imp.Import(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Deleted)
	assert.Equal(t, 2, summary.Inserted)
	assert.Len(t, store.postings["acmeinc"], 2)
}

func TestImport_ReimportFailureKeepsOldRows(t *testing.T) {
	store := newFakeStore()
	_, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), acmeRequest())
	require.NoError(t, err)

	store.replaceErr = errors.New("serialization failure")
	req := acmeRequest()
	req.Reimport = true
	_, err = New(boardWith(testJobs()[:1]), store, nil, nil).Import(context.Background(), req)
	require.Error(t, err)

	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.Len(t, store.postings["acmeinc"], 3)
}

func TestImport_DryRunWithoutStore(t *testing.T) {
	req := acmeRequest()
	req.DryRun = true
	summary, err := New(boardWith(testJobs()), nil, nil, nil).Import(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 3, summary.Inserted)
	require.Len(t, summary.Postings, 3)
	assert.Equal(t, "101", summary.Postings[0].ExternalID)
	assert.Contains(t, summary.Postings[0].Signals, "team_structure:build_team")
}

func TestImport_DryRunReportsSplitWithoutWriting(t *testing.T) {
	store := newFakeStore()
	_, err := New(boardWith(testJobs()[:1]), store, nil, nil).Import(context.Background(), acmeRequest())
	require.NoError(t, err)
	delete(store.companies, "acmeinc")

	req := acmeRequest()
	req.DryRun = true
	summary, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, store.postings["acmeinc"], 1)
	assert.Empty(t, store.companies)
}

func TestImport_StoreFailureAbortsAndKeepsCommitted(t *testing.T) {
	store := newFakeStore()
	store.failAfter = 1

	summary, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), acmeRequest())
	require.Error(t, err)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "102", storeErr.ExternalID)
	require.NotNil(t, summary)
	assert.True(t, summary.Partial)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 2, summary.Errored)
	assert.Len(t, store.postings["acmeinc"], 1)
	assert.Empty(t, store.companies)
}

func TestImport_StoreFailureErroredExcludesStoredPostings(t *testing.T) {
	store := newFakeStore()
	store.postings["acmeinc"] = map[string]*db.Posting{"103": {Company: "acmeinc", ExternalID: "103"}}
	store.failAfter = 2

	summary, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), acmeRequest())
	require.Error(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Errored, "103 is already stored and was never going to be written")
	assert.Len(t, store.postings["acmeinc"], 2)
}

func TestImport_ConcurrentDuplicateCountsAsSkipped(t *testing.T) {
	store := newFakeStore()
	store.racing["102"] = true

	summary, err := New(boardWith(testJobs()), store, nil, nil).Import(context.Background(), acmeRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 1, summary.Skipped)
}

func TestImport_CompanyLocked(t *testing.T) {
	store := newFakeStore()
	store.lockErr = fmt.Errorf("%w: acmeinc", db.ErrCompanyLocked)
	board := &mockBoard{}

	_, err := New(board, store, nil, nil).Import(context.Background(), acmeRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrCompanyLocked))
	board.AssertNotCalled(t, "ListJobs", mock.Anything, mock.Anything)
}

func TestImport_TransportFailure(t *testing.T) {
	store := newFakeStore()
	board := &mockBoard{}
	board.On("ListJobs", mock.Anything, "acme").Return(nil, &fetch.Error{URL: "x", Message: "HTTP 503", Retryable: true})

	_, err := New(board, store, nil, nil).Import(context.Background(), acmeRequest())
	require.Error(t, err)
	assert.True(t, fetch.IsTransport(err))
	assert.Contains(t, err.Error(), "Acme, Inc.")
	assert.Empty(t, store.postings)
}

func TestImport_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		store Store
		field string
	}{
		{"missing company", Request{Board: "acme"}, newFakeStore(), "company"},
		{"punctuation company", Request{Board: "acme", Company: "!!!"}, newFakeStore(), "company"},
		{"missing board", Request{Company: "Acme"}, newFakeStore(), "board"},
		{"foreign board", Request{Board: "https://jobs.lever.co/acme", Company: "Acme"}, newFakeStore(), "board"},
		{"bad website", Request{Board: "acme", Company: "Acme", WebsiteURL: "not a url"}, newFakeStore(), "website_url"},
		{"no store", Request{Board: "acme", Company: "Acme"}, nil, "dry_run"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := &mockBoard{}
			_, err := New(board, tt.store, nil, nil).Import(context.Background(), tt.req)
			require.Error(t, err)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			board.AssertNotCalled(t, "ListJobs", mock.Anything, mock.Anything)
		})
	}
}

func TestRunBatch_IsolatesFailures(t *testing.T) {
	board := &mockBoard{}
	board.On("ListJobs", mock.Anything, "acme").Return(&greenhouse.Listing{Jobs: testJobs()}, nil)
	board.On("ListJobs", mock.Anything, "broken").Return(nil, &fetch.Error{URL: "x", Message: "HTTP 500"})
	board.On("ListJobs", mock.Anything, "globex").Return(&greenhouse.Listing{Jobs: testJobs()[:1]}, nil)
	store := newFakeStore()

	m := &Manifest{Companies: []Request{
		{Board: "acme", Company: "Acme"},
		{Board: "broken", Company: "Broken Co"},
		{Board: "globex", Company: "Globex"},
	}}
	results, err := New(board, store, nil, nil).RunBatch(context.Background(), m, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, 3, results[0].Summary.Inserted)
	assert.Error(t, results[1].Err)
	assert.NotEmpty(t, results[1].Error)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 1, Failed(results))
	assert.Len(t, store.postings["globex"], 1)
}

func TestRunBatch_RejectsDuplicateCompanies(t *testing.T) {
	board := &mockBoard{}
	m := &Manifest{Companies: []Request{
		{Board: "acme", Company: "Acme"},
		{Board: "acme-eu", Company: "ACME"},
	}}
	_, err := New(board, newFakeStore(), nil, nil).RunBatch(context.Background(), m, 2)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "companies[1].company", vErr.Field)
	board.AssertNotCalled(t, "ListJobs", mock.Anything, mock.Anything)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"companies":[{"board":"acme","company":"Acme","reimport":true}]}`), 0o644))
	m, err := LoadManifest(good)
	require.NoError(t, err)
	require.Len(t, m.Companies, 1)
	assert.True(t, m.Companies[0].Reimport)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"companies":[]}`), 0o644))
	_, err = LoadManifest(empty)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"companies":`), 0o644))
	_, err = LoadManifest(broken)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestSortedCounts(t *testing.T) {
	got := sortedCounts(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	assert.Equal(t, []Count{{"c", 5}, {"a", 2}, {"b", 2}}, got)
}

func TestEnrichInput(t *testing.T) {
	in := EnrichInput(greenhouse.Job{
		ID:          4012,
		Title:       "Account Executive",
		Content:     "<p>Sell</p>",
		Departments: []greenhouse.NamedEntity{{Name: "Sales"}, {Name: "Revenue"}},
		Offices:     []greenhouse.NamedEntity{{Name: "New York"}, {Name: " "}, {Name: "Austin"}},
		PayInputRanges: []greenhouse.PayInputRange{
			{MinCents: 12000000, MaxCents: 15000000, CurrencyType: "USD"},
		},
	})

	assert.Equal(t, "4012", in.ExternalID)
	assert.Equal(t, "Sales", in.Department)
	assert.Equal(t, "New York; Austin", in.LocationText)
	require.Len(t, in.PayRanges, 1)
	assert.Equal(t, 120000.0, in.PayRanges[0].Min)
	assert.Equal(t, 150000.0, in.PayRanges[0].Max)
}
