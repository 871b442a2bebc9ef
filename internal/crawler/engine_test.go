package crawler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

const divisionBPageHTML = `<html><body>
<a href="/info/venues/42">Hunt Park</a>
<div id="fixtures_accordion_fixtures">
  <div class="panel">
    <div class="panel-heading"><h4 class="panel-title">View: 19-05-2025</h4></div>
    <div class="panel-collapse">
      <table class="table-striped"><tbody>
        <tr>
          <td>19:00</td>
          <td><a href="/info/teams/2">TeamY</a></td>
          <td></td>
          <td><a href="/info/teams/3">TeamZ</a></td>
        </tr>
      </tbody></table>
    </div>
  </div>
</div>
</body></html>`

const venuePageHTML = `<html><body><div class="venue-details">
  <p>Address</p>
  <p>12 Park Rd</p>
</div></body></html>`

// mapFetcher serves canned pages by URL and counts hits; URLs outside the
// map behave like a fetch that exhausted its retries.
type mapFetcher struct {
	pages map[string]string
	hits  map[string]int
}

func newMapFetcher(pages map[string]string) *mapFetcher {
	return &mapFetcher{pages: pages, hits: make(map[string]int)}
}

func (f *mapFetcher) Fetch(_ context.Context, rawURL string) (Page, error) {
	f.hits[rawURL]++
	html, ok := f.pages[rawURL]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrFetchFailed, rawURL)
	}
	return Page{URL: rawURL, StatusCode: 200, Body: []byte(html)}, nil
}

func testEngineConfig(limit int) Config {
	return Config{
		BaseURL:         "https://fm.test",
		LeaguePageURL:   "https://fm.test/find_league",
		UserAgent:       "test-agent",
		RequestTimeout:  time.Second,
		RetryAttempts:   1,
		Limit:           limit,
		Timezone:        time.UTC,
		DefaultLocation: testDefaultAddress,
	}
}

func sitePages() map[string]string {
	return map[string]string{
		"https://fm.test/find_league":           findLeagueHTML,
		"https://fm.test/info/league_group/10":  groupPageHTML,
		"https://fm.test/info/leagues/100":      leaguePageHTML,
		"https://fm.test/info/leagues/101":      divisionBPageHTML,
		"https://fm.test/info/venues/42":        venuePageHTML,
		// league_group/11 is intentionally absent: its fetch fails and the
		// run must continue anyway.
	}
}

func newEngineStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func TestEngineRun(t *testing.T) {
	t.Parallel()

	st := newEngineStore(t)
	fetcher := newMapFetcher(sitePages())
	engine := NewEngine(testEngineConfig(0), fetcher, st, zap.NewNop())

	stats, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, RunStats{
		Groups:        2,
		Leagues:       2,
		Fixtures:      3,
		Duplicates:    0,
		SkippedRows:   2,
		FailedFetches: 1,
	}, stats)

	ctx := context.Background()
	counts, err := st.TableCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, store.Counts{Groups: 2, Leagues: 2, Venues: 1, Teams: 3, Fixtures: 3}, counts)

	// The venue address is resolved once and cached for the run even though
	// two leagues share the venue.
	require.Equal(t, 1, fetcher.hits["https://fm.test/info/venues/42"])

	teamX, err := st.TeamByName(ctx, "TeamX")
	require.NoError(t, err)
	fixtures, err := st.TeamFixtures(ctx, teamX.ID, testDefaultAddress)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	require.Equal(t, time.Date(2025, 5, 12, 20, 45, 0, 0, time.UTC), fixtures[0].Kickoff)
	require.Equal(t, "3-1", fixtures[0].Result)
	require.Equal(t, "12 Park Rd", fixtures[0].Location)
	require.Equal(t, time.Date(2025, 5, 19, 20, 45, 0, 0, time.UTC), fixtures[1].Kickoff)
}

// TestEngineRunIsIdempotent re-crawls identical content and expects
// identical row counts everywhere: only duplicates, no new rows.
func TestEngineRunIsIdempotent(t *testing.T) {
	t.Parallel()

	st := newEngineStore(t)
	ctx := context.Background()

	first := NewEngine(testEngineConfig(0), newMapFetcher(sitePages()), st, zap.NewNop())
	_, err := first.Run(ctx)
	require.NoError(t, err)
	before, err := st.TableCounts(ctx)
	require.NoError(t, err)

	second := NewEngine(testEngineConfig(0), newMapFetcher(sitePages()), st, zap.NewNop())
	stats, err := second.Run(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Fixtures, "no new fixtures on re-crawl")
	require.Equal(t, 3, stats.Duplicates)

	after, err := st.TableCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestEngineRunHonorsLimit(t *testing.T) {
	t.Parallel()

	st := newEngineStore(t)
	fetcher := newMapFetcher(sitePages())
	engine := NewEngine(testEngineConfig(1), fetcher, st, zap.NewNop())

	stats, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Groups)
	require.Zero(t, stats.FailedFetches)
	require.Zero(t, fetcher.hits["https://fm.test/info/league_group/11"])
}

func TestEngineRunFailsWithoutGroups(t *testing.T) {
	t.Parallel()

	st := newEngineStore(t)
	fetcher := newMapFetcher(map[string]string{
		"https://fm.test/find_league": `<html><body><p>maintenance</p></body></html>`,
	})
	engine := NewEngine(testEngineConfig(0), fetcher, st, zap.NewNop())

	_, err := engine.Run(context.Background())
	require.Error(t, err)
}

func TestEngineRunFailsWhenListingUnreachable(t *testing.T) {
	t.Parallel()

	st := newEngineStore(t)
	engine := NewEngine(testEngineConfig(0), newMapFetcher(nil), st, zap.NewNop())

	_, err := engine.Run(context.Background())
	require.ErrorIs(t, err, ErrFetchFailed)
}
