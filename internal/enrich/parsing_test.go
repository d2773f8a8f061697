package enrich

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "  Hello   world  ", "Hello world"},
		{"paragraphs", "<p>First</p><p>Second</p>", "First\nSecond"},
		{"line breaks", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"list", "<ul><li>Go</li><li>SQL</li></ul>", "• Go\n\n• SQL"},
		{"escaped markup", "&lt;p&gt;Benefits &amp;amp; perks&lt;/p&gt;", "Benefits & perks"},
		{"entities", "<p>R&amp;D &nbsp;team</p>", "R&D team"},
		{"scripts dropped", "<p>Hi</p><script>alert(1)</script>", "Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestExtractSalary_Text(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		lo, hi float64
	}{
		{"full figures", "The range is $120,000 - $150,000 per year.", 120000, 150000},
		{"k suffix", "Base: $140k – $180k", 140000, 180000},
		{"bare thousands", "Pay $90 to $110 depending on experience", 90000, 110000},
		{"reversed", "$200,000 - $180,000", 180000, 200000},
		{"ote", "Compensation: $250,000 OTE", 150000, 250000},
		{"ote k", "$300k on-target earnings", 180000, 300000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := ExtractSalary(nil, tt.text)
			require.NotNil(t, lo)
			require.NotNil(t, hi)
			assert.InDelta(t, tt.lo, *lo, 0.01)
			assert.InDelta(t, tt.hi, *hi, 0.01)
		})
	}
}

func TestExtractSalary_None(t *testing.T) {
	for _, text := range []string{
		"",
		"Competitive salary and equity.",
		"$25 - $35 / hour",
		"Raised $50 - $60 million in funding",
	} {
		lo, hi := ExtractSalary(nil, text)
		assert.Nil(t, lo, text)
		assert.Nil(t, hi, text)
	}
}

func TestExtractSalary_PayRangesWin(t *testing.T) {
	lo, hi := ExtractSalary([]PayRange{
		{Min: 130000, Max: 160000, Currency: "USD"},
		{Min: 120000, Max: 150000, Currency: "USD"},
	}, "$1k - $2k")
	require.NotNil(t, lo)
	assert.InDelta(t, 120000, *lo, 0.01)
	assert.InDelta(t, 160000, *hi, 0.01)
}

func TestParseLocation(t *testing.T) {
	e := New(nil)
	tests := []struct {
		name   string
		text   string
		desc   string
		places []string
		mode   string
		state  string
	}{
		{"metro", "San Francisco, CA", "", []string{"San Francisco Bay Area"}, WorkModeOnsite, "CA"},
		{"multi", "New York, NY; Brooklyn, NY | Seattle, WA", "", []string{"New York Metro", "Seattle Metro"}, WorkModeOnsite, "NY"},
		{"remote only", "Remote - US", "", []string{RemoteLabel}, WorkModeRemote, ""},
		{"remote or city", "Remote or Austin, TX", "", []string{"Austin Metro"}, WorkModeRemote, "TX"},
		{"hybrid", "Hybrid - Boston, MA", "", []string{"Boston Metro"}, WorkModeHybrid, "MA"},
		{"unlisted city with state", "Omaha, NE", "", []string{"Omaha, NE"}, WorkModeOnsite, "NE"},
		{"unresolvable", "Planet Mars", "", []string{"unknown"}, WorkModeUnknown, ""},
		{"description remote", "", "This is a remote-first role.", []string{RemoteLabel}, WorkModeRemote, ""},
		{"dc", "Washington, DC", "", []string{"Washington DC Metro"}, WorkModeOnsite, "DC"},
		{"accented city", "Émeryville, CA", "", []string{"Émeryville, CA"}, WorkModeOnsite, "CA"},
		{"accented multi word", "ñew town, ND", "", []string{"Ñew Town, ND"}, WorkModeOnsite, "ND"},
		{"foreign qualifier", "Cambridge, United Kingdom", "", []string{"unknown"}, WorkModeUnknown, ""},
		{"us qualifier", "Cambridge, USA", "", []string{"Boston Metro"}, WorkModeOnsite, ""},
		{"state qualifier", "Cambridge, MA", "", []string{"Boston Metro"}, WorkModeOnsite, "MA"},
		{"foreign metro with country", "London, United Kingdom", "", []string{"London, UK"}, WorkModeOnsite, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := e.parseLocation(tt.text, tt.desc)
			assert.Equal(t, tt.places, loc.Places)
			assert.Equal(t, tt.mode, loc.WorkMode)
			assert.Equal(t, tt.state, loc.State)
			for _, place := range loc.Places {
				assert.True(t, utf8.ValidString(place), place)
			}
		})
	}
}
