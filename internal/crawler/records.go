// Package crawler discovers league groups, leagues, fixtures, and venues
// from the fixture-listing site and persists them through the store.
package crawler

import "time"

// LeagueGroupLink is a league group discovered in the site's selection
// dropdown. URL is relative to the site base.
type LeagueGroupLink struct {
	Name string
	URL  string
}

// LeagueLink is a league discovered on a group page. URL is relative.
type LeagueLink struct {
	Name string
	URL  string
}

// FixtureRecord is one parsed fixture row. Kickoff carries the display
// timezone; conversion to UTC happens at the persistence boundary. Result is
// empty for upcoming fixtures.
type FixtureRecord struct {
	Kickoff  time.Time
	HomeName string
	HomeURL  string
	AwayName string
	AwayURL  string
	Result   string
}

// VenueRecord describes the venue linked from a league page. A page without
// a venue link yields the sentinel record: empty URL, name "Unknown", and
// the configured default address.
type VenueRecord struct {
	Name    string
	URL     string
	Address string
}

// RunStats summarizes one crawl run. SkippedRows counts malformed fixture
// rows the extractor dropped; FailedFetches counts URLs abandoned after
// retry exhaustion. Both are observable here rather than only in logs.
type RunStats struct {
	Groups        int
	Leagues       int
	Fixtures      int
	Duplicates    int
	SkippedRows   int
	FailedFetches int
}
