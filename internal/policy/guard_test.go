package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_AllowsListedHost(t *testing.T) {
	g := NewGuard(true, []string{"query1.finance.yahoo.com", "api.stlouisfed.org"})

	require.NoError(t, g.Check("https://query1.finance.yahoo.com/v8/finance/chart/AAPL"))
	require.NoError(t, g.Check("https://api.stlouisfed.org/fred/series/observations?series_id=GDP"))
}

func TestCheck_RejectsNonHTTPS(t *testing.T) {
	g := NewGuard(true, []string{"query1.finance.yahoo.com"})

	err := g.Check("http://query1.finance.yahoo.com/v8/finance/chart/AAPL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemeNotAllowed))

	err = g.Check("ftp://query1.finance.yahoo.com/data")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemeNotAllowed))
}

func TestCheck_StrictRejectsUnlistedHost(t *testing.T) {
	g := NewGuard(true, []string{"query1.finance.yahoo.com"})

	err := g.Check("https://evil.example.com/exfil")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHostNotAllowed))
}

func TestCheck_NonStrictOnlyEnforcesScheme(t *testing.T) {
	g := NewGuard(false, nil)

	require.NoError(t, g.Check("https://anything.example.com/path"))

	err := g.Check("http://anything.example.com/path")
	assert.True(t, errors.Is(err, ErrSchemeNotAllowed))
}

func TestCheck_HostMatchingIsCaseInsensitive(t *testing.T) {
	g := NewGuard(true, []string{"News.Google.Com"})

	require.NoError(t, g.Check("https://news.google.com/rss/search?q=dart"))
	require.NoError(t, g.Check("https://NEWS.GOOGLE.COM/rss"))
}

func TestCheck_InvalidURL(t *testing.T) {
	g := NewGuard(true, []string{"query1.finance.yahoo.com"})

	assert.Error(t, g.Check("https://bad host/chart"))
}

func TestCheck_PortDoesNotBypassAllowList(t *testing.T) {
	g := NewGuard(true, []string{"query1.finance.yahoo.com"})

	// Hostname matching ignores the port; the host itself must still match.
	require.NoError(t, g.Check("https://query1.finance.yahoo.com:443/v8/finance/chart/AAPL"))
	assert.Error(t, g.Check("https://evil.example.com:443/"))
}
