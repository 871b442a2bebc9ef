package crawler

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// leagueGroupOnChange identifies the site's league-group dropdown.
	leagueGroupOnChange = "location = this.options[this.selectedIndex].value;"
	leaguePlaceholder   = "/find_league"
	leagueNameMarker    = "View Fixtures"

	upcomingSectionID = "fixtures_accordion_fixtures"
	resultsSectionID  = "fixtures_accordion_results"

	panelDateLayout = "02-01-2006"
	rowTimeLayout   = "15:04"
)

var venueURLPattern = regexp.MustCompile(`^/info/venues/\d+`)

// ExtractLeagueGroups reads the league-group selection dropdown and returns
// one link per group, skipping the placeholder entry. A page without the
// dropdown yields an empty slice; the caller decides whether that is fatal.
func ExtractLeagueGroups(doc *goquery.Document) []LeagueGroupLink {
	var groups []LeagueGroupLink
	dropdown := doc.Find("select").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return sel.AttrOr("onchange", "") == leagueGroupOnChange
	}).First()
	dropdown.Find("option").Each(func(_ int, opt *goquery.Selection) {
		name := strings.TrimSpace(opt.Text())
		relative := strings.TrimSpace(opt.AttrOr("value", ""))
		if relative == "" || relative == leaguePlaceholder {
			return
		}
		groups = append(groups, LeagueGroupLink{Name: name, URL: relative})
	})
	return groups
}

// ExtractLeagues reads the league panel headings on a group page. League
// names carry a trailing "View Fixtures" link text which is trimmed off.
func ExtractLeagues(doc *goquery.Document) []LeagueLink {
	var leagues []LeagueLink
	doc.Find("div.col-lg-12 div.panel-heading h4.panel-title").Each(func(_ int, heading *goquery.Selection) {
		link := heading.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		name := strings.TrimSpace(strings.SplitN(heading.Text(), leagueNameMarker, 2)[0])
		href := link.AttrOr("href", "")
		if href == "" {
			return
		}
		leagues = append(leagues, LeagueLink{Name: name, URL: href})
	})
	return leagues
}

// ExtractFixturesAndVenue scans the upcoming and results accordion sections
// of a league page. Malformed panels and rows are skipped, not fatal; the
// returned count makes those skips observable to the caller. The venue is
// the first link on the page matching the venue URL pattern; without one the
// sentinel "Unknown" venue with the default address is returned.
func ExtractFixturesAndVenue(doc *goquery.Document, tz *time.Location, defaultAddress string) ([]FixtureRecord, VenueRecord, int) {
	venue := VenueRecord{Name: "Unknown", Address: defaultAddress}
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href := link.AttrOr("href", "")
		if !venueURLPattern.MatchString(href) {
			return true
		}
		venue = VenueRecord{Name: strings.TrimSpace(link.Text()), URL: href}
		return false
	})

	var fixtures []FixtureRecord
	skipped := 0
	for _, sectionID := range []string{upcomingSectionID, resultsSectionID} {
		isResults := sectionID == resultsSectionID
		doc.Find("div#" + sectionID).Find("div.panel-heading").Each(func(_ int, panel *goquery.Selection) {
			title := panel.Find("h4.panel-title").First()
			if title.Length() == 0 {
				return
			}
			dateText := strings.TrimSpace(strings.ReplaceAll(title.Text(), "View:", ""))
			day, err := time.ParseInLocation(panelDateLayout, dateText, tz)
			if err != nil {
				skipped++
				return
			}

			content := panel.NextAllFiltered("div.panel-collapse").First()
			table := content.Find("table.table-striped").First()
			table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
				record, ok := parseFixtureRow(row, day, tz, isResults)
				if !ok {
					skipped++
					return
				}
				fixtures = append(fixtures, record)
			})
		})
	}
	return fixtures, venue, skipped
}

// parseFixtureRow converts one table row into a FixtureRecord. Rows with
// fewer than four cells, unparseable times, or missing team links report
// !ok so the caller can count the skip.
func parseFixtureRow(row *goquery.Selection, day time.Time, tz *time.Location, isResults bool) (FixtureRecord, bool) {
	cells := row.Find("td")
	if cells.Length() < 4 {
		return FixtureRecord{}, false
	}

	clock, err := time.Parse(rowTimeLayout, strings.TrimSpace(cells.Eq(0).Text()))
	if err != nil {
		return FixtureRecord{}, false
	}
	kickoff := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, tz)

	homeLink := cells.Eq(1).Find("a[href]").First()
	awayLink := cells.Eq(3).Find("a[href]").First()
	if homeLink.Length() == 0 || awayLink.Length() == 0 {
		return FixtureRecord{}, false
	}

	record := FixtureRecord{
		Kickoff:  kickoff,
		HomeName: strings.TrimSpace(homeLink.Text()),
		HomeURL:  homeLink.AttrOr("href", ""),
		AwayName: strings.TrimSpace(awayLink.Text()),
		AwayURL:  awayLink.AttrOr("href", ""),
	}
	if isResults {
		record.Result = strings.TrimSpace(cells.Eq(2).Text())
	}
	return record, true
}

// ExtractVenueAddress locates the "Address" block on a venue page and joins
// the sibling text lines beneath it. Any structural miss degrades to the
// default address.
func ExtractVenueAddress(doc *goquery.Document, defaultAddress string) string {
	label := doc.Find("p").FilterFunction(func(_ int, p *goquery.Selection) bool {
		return strings.TrimSpace(p.Text()) == "Address"
	}).First()
	if label.Length() == 0 {
		return defaultAddress
	}

	container := label.Closest("div")
	if container.Length() == 0 {
		return defaultAddress
	}

	var lines []string
	container.Find("p").Each(func(i int, p *goquery.Selection) {
		if i == 0 {
			return // the "Address" label itself
		}
		if text := strings.TrimSpace(p.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		return defaultAddress
	}
	return strings.Join(lines, ", ")
}
