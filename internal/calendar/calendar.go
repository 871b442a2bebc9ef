// Package calendar derives iCalendar artifacts from stored fixture data.
// Output is deterministic: an unchanged store always serializes to
// byte-identical calendars, so republishing never churns the artifact files.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

const eventDuration = time.Hour

// BuildTeamCalendar renders one calendar for a team. Event titles name the
// team first with the opponent resolved per fixture; completed matches carry
// a "Result: ..." description.
func BuildTeamCalendar(team store.Team, fixtures []store.FixtureDetail, tz *time.Location) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(fmt.Sprintf("-//Fixtures for team %s//EN", team.Name))

	for _, f := range fixtures {
		opponent := f.AwayName
		if f.AwayTeamID == team.ID {
			opponent = f.HomeName
		}
		summary := fmt.Sprintf("%s vs %s", team.Name, opponent)
		addEvent(cal, f, fmt.Sprintf("team/%d/fixture/%d", team.ID, f.ID), summary, tz)
	}
	return cal
}

// BuildLeagueCalendar renders one calendar for a league; titles use the
// home and away names directly.
func BuildLeagueCalendar(league store.League, fixtures []store.FixtureDetail, tz *time.Location) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(fmt.Sprintf("-//Fixtures for %s - %s//EN", league.GroupName, league.Slug))

	for _, f := range fixtures {
		summary := fmt.Sprintf("%s vs %s", f.HomeName, f.AwayName)
		addEvent(cal, f, fmt.Sprintf("league/%d/fixture/%d", league.ID, f.ID), summary, tz)
	}
	return cal
}

// addEvent appends one fixture event. The UID is a v5 UUID of the fixture
// key and DTSTAMP is the kickoff itself, so regeneration is reproducible.
func addEvent(cal *ics.Calendar, f store.FixtureDetail, key, summary string, tz *time.Location) {
	uid := uuid.NewSHA1(uuid.NameSpaceURL, []byte("clive-fixtures/"+key))
	event := cal.AddEvent(uid.String())

	start := f.Kickoff.In(tz)
	event.SetDtStampTime(f.Kickoff.UTC())
	event.SetStartAt(start)
	event.SetEndAt(start.Add(eventDuration))
	event.SetSummary(summary)
	event.SetLocation(f.Location)
	if f.Result != "" {
		event.SetDescription(fmt.Sprintf("Result: %s", f.Result))
	}
}
