package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPage_LegacyWithDepartments(t *testing.T) {
	body := `<html><body><div id="main">
	<section class="level-0"><h3>Sales</h3>
	  <div class="opening"><a href="/acme/jobs/1">Account Executive</a></div>
	  <div class="opening"><a href="/acme/jobs/2">SDR</a></div>
	</section>
	<section class="level-0"><h3>Engineering</h3>
	  <div class="opening"><a href="/acme/jobs/3">Backend Engineer</a></div>
	</section>
	</div></body></html>`

	page, err := DetectPage([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, FormatLegacy, page.Format())
	assert.Equal(t, 3, page.OpenRoles())
	assert.Equal(t, map[string]int{"Sales": 2, "Engineering": 1}, page.DepartmentCounts())
}

func TestDetectPage_LegacyMappedLinks(t *testing.T) {
	body := `<html><body><div id="app_body">
	<a data-mapped="true" href="/acme/jobs/1">One</a>
	<a data-mapped="true" href="/acme/jobs/2">Two</a>
	</div></body></html>`

	page, err := DetectPage([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 2, page.OpenRoles())
	assert.Nil(t, page.DepartmentCounts())
}

func TestDetectPage_LegacyEmptyBoard(t *testing.T) {
	body := `<html><body><div id="app_body"><p>There are no open positions at this time.</p></div></body></html>`

	page, err := DetectPage([]byte(body))
	require.NoError(t, err)
	legacy, ok := page.(*LegacyMarkupPage)
	require.True(t, ok)
	assert.True(t, legacy.Empty)
	assert.Equal(t, 0, page.OpenRoles())
}

func TestDetectPage_LegacyWithoutCount(t *testing.T) {
	body := `<html><body><div id="app_body"><p>Loading</p></div></body></html>`

	_, err := DetectPage([]byte(body))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, FormatLegacy, parseErr.Format)
}

func TestDetectPage_ModernNextData(t *testing.T) {
	body := `<html><body><script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"jobPosts":{"data":[{"id":1},{"id":2},{"id":2}],"total":5}}}}
	</script></body></html>`

	page, err := DetectPage([]byte(body))
	require.NoError(t, err)
	modern, ok := page.(*ModernPayloadPage)
	require.True(t, ok)
	assert.Equal(t, FormatModern, page.Format())
	assert.Equal(t, []string{"1", "2"}, modern.JobIDs)
	assert.Equal(t, 5, modern.Declared)
	assert.Equal(t, 5, page.OpenRoles(), "declared total wins when larger")
	assert.Nil(t, page.DepartmentCounts())
}

func TestDetectPage_ModernRemixContext(t *testing.T) {
	body := `<html><body><script>window.__remixContext = {"state":{"loaderData":{"routes/$url_token":{"jobPosts":[{"id":11},{"id":12},{"title":"untitled"}]}}}};</script></body></html>`

	page, err := DetectPage([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, FormatModern, page.Format())
	assert.Equal(t, 3, page.OpenRoles())
}

func TestDetectPage_ModernFallbackIDs(t *testing.T) {
	body := `<html><body><script type="application/json">
	{"board":{"jobs":"see below","items":[{"id":"1234567"},{"id":7654321},{"id":42}]}}
	</script></body></html>`

	page, err := DetectPage([]byte(body))
	require.NoError(t, err)
	modern := page.(*ModernPayloadPage)
	assert.Equal(t, []string{"1234567", "7654321"}, modern.JobIDs)
	assert.Equal(t, 2, page.OpenRoles())
}

func TestDetectPage_ModernWithoutJobs(t *testing.T) {
	body := `<html><body><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{}}}</script></body></html>`

	_, err := DetectPage([]byte(body))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, FormatModern, parseErr.Format)
	assert.False(t, errors.Is(err, ErrUnrecognizedPage))
}

func TestDetectPage_Unrecognized(t *testing.T) {
	_, err := DetectPage([]byte(`<html><body><h1>Page not found</h1></body></html>`))
	assert.ErrorIs(t, err, ErrUnrecognizedPage)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Format: FormatModern, Message: "payload has no job list", Cause: errors.New("eof")}
	assert.Equal(t, "parse error (modern): payload has no job list: eof", err.Error())
	assert.Equal(t, "parse error: bad", (&ParseError{Message: "bad"}).Error())
}
