package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aydinaksel/clive-fixtures/internal/slug"
)

// ErrNotFound is returned by the slug lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

// Team is a globally-deduplicated team row.
type Team struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

// LeagueGroup is the root of the crawled hierarchy.
type LeagueGroup struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

// League belongs to exactly one group.
type League struct {
	ID        int64  `db:"id"`
	GroupID   int64  `db:"league_group_id"`
	GroupName string `db:"group_name"`
	Name      string `db:"name"`
	URL       string `db:"url"`
	Slug      string `db:"slug"`
}

// Venue is shared by every fixture played there.
type Venue struct {
	ID      int64  `db:"id"`
	URL     string `db:"url"`
	Name    string `db:"name"`
	Address string `db:"address"`
}

// FixtureDetail is the denormalized read-side row backing calendar and
// manifest generation. Kickoff is UTC; Location already falls back to the
// configured default when the fixture has no venue address.
type FixtureDetail struct {
	ID         int64
	LeagueID   int64
	HomeTeamID int64
	HomeName   string
	AwayTeamID int64
	AwayName   string
	Kickoff    time.Time
	Result     string
	Location   string
}

// Counts reports the number of rows in every table; the crawl run summary
// and the idempotency tests read it.
type Counts struct {
	Groups   int64
	Leagues  int64
	Venues   int64
	Teams    int64
	Fixtures int64
}

// fixtureScan is the raw scan target; dt_utc is stored as RFC 3339 text.
type fixtureScan struct {
	ID         int64          `db:"id"`
	LeagueID   int64          `db:"league_id"`
	HomeTeamID int64          `db:"home_team_id"`
	HomeName   string         `db:"home_name"`
	AwayTeamID int64          `db:"away_team_id"`
	AwayName   string         `db:"away_name"`
	DTUTC      string         `db:"dt_utc"`
	Result     sql.NullString `db:"result"`
	Location   string         `db:"location"`
}

const fixtureSelect = `
	SELECT f.id, f.league_id,
	       f.home_team_id, t1.name AS home_name,
	       f.away_team_id, t2.name AS away_name,
	       f.dt_utc, f.result,
	       COALESCE(v.address, ?) AS location
	FROM fixture f
	JOIN team t1 ON f.home_team_id = t1.id
	JOIN team t2 ON f.away_team_id = t2.id
	LEFT JOIN venue v ON f.venue_id = v.id`

// TeamFixtures returns every fixture the team plays in, home or away,
// ordered by kickoff ascending.
func (s *Store) TeamFixtures(ctx context.Context, teamID int64, defaultLocation string) ([]FixtureDetail, error) {
	query := fixtureSelect + `
	WHERE f.home_team_id = ? OR f.away_team_id = ?
	ORDER BY f.dt_utc ASC`
	return s.selectFixtures(ctx, query, defaultLocation, teamID, teamID)
}

// LeagueFixtures returns every fixture in the league, ordered by kickoff
// ascending.
func (s *Store) LeagueFixtures(ctx context.Context, leagueID int64, defaultLocation string) ([]FixtureDetail, error) {
	query := fixtureSelect + `
	WHERE f.league_id = ?
	ORDER BY f.dt_utc ASC`
	return s.selectFixtures(ctx, query, defaultLocation, leagueID)
}

func (s *Store) selectFixtures(ctx context.Context, query string, args ...any) ([]FixtureDetail, error) {
	var raw []fixtureScan
	if err := sqlx.SelectContext(ctx, s.ext, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}
	out := make([]FixtureDetail, 0, len(raw))
	for _, r := range raw {
		kickoff, err := time.Parse(time.RFC3339, r.DTUTC)
		if err != nil {
			return nil, fmt.Errorf("parse fixture %d kickoff %q: %w", r.ID, r.DTUTC, err)
		}
		out = append(out, FixtureDetail{
			ID:         r.ID,
			LeagueID:   r.LeagueID,
			HomeTeamID: r.HomeTeamID,
			HomeName:   r.HomeName,
			AwayTeamID: r.AwayTeamID,
			AwayName:   r.AwayName,
			Kickoff:    kickoff.UTC(),
			Result:     r.Result.String,
			Location:   r.Location,
		})
	}
	return out, nil
}

// TeamBySlug resolves a team by its slug.
func (s *Store) TeamBySlug(ctx context.Context, teamSlug string) (Team, error) {
	var t Team
	err := sqlx.GetContext(ctx, s.ext, &t,
		`SELECT id, name, slug FROM team WHERE slug = ?`, teamSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, fmt.Errorf("team %q: %w", teamSlug, ErrNotFound)
	}
	if err != nil {
		return Team{}, fmt.Errorf("select team %q: %w", teamSlug, err)
	}
	return t, nil
}

// TeamByName resolves a team by display name via its derived slug.
func (s *Store) TeamByName(ctx context.Context, name string) (Team, error) {
	return s.TeamBySlug(ctx, slug.Make(name))
}

// LeagueBySlug resolves a league, including its group name.
func (s *Store) LeagueBySlug(ctx context.Context, leagueSlug string) (League, error) {
	var l League
	err := sqlx.GetContext(ctx, s.ext, &l, `
		SELECT l.id, l.league_group_id, lg.name AS group_name,
		       l.name, l.url, l.slug
		FROM league l
		JOIN league_group lg ON l.league_group_id = lg.id
		WHERE l.slug = ?`, leagueSlug)
	if errors.Is(err, sql.ErrNoRows) {
		return League{}, fmt.Errorf("league %q: %w", leagueSlug, ErrNotFound)
	}
	if err != nil {
		return League{}, fmt.Errorf("select league %q: %w", leagueSlug, err)
	}
	return l, nil
}

// Teams lists every team ordered by slug.
func (s *Store) Teams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := sqlx.SelectContext(ctx, s.ext, &teams,
		`SELECT id, name, slug FROM team ORDER BY slug`); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	return teams, nil
}

// Groups lists every league group ordered by slug.
func (s *Store) Groups(ctx context.Context) ([]LeagueGroup, error) {
	var groups []LeagueGroup
	if err := sqlx.SelectContext(ctx, s.ext, &groups,
		`SELECT id, name, slug FROM league_group ORDER BY slug`); err != nil {
		return nil, fmt.Errorf("select league groups: %w", err)
	}
	return groups, nil
}

// Leagues lists every league ordered by slug, with group names resolved.
func (s *Store) Leagues(ctx context.Context) ([]League, error) {
	return s.selectLeagues(ctx, `ORDER BY l.slug`)
}

// LeaguesForGroup lists the leagues in one group ordered by slug.
func (s *Store) LeaguesForGroup(ctx context.Context, groupID int64) ([]League, error) {
	return s.selectLeagues(ctx, `WHERE l.league_group_id = ? ORDER BY l.slug`, groupID)
}

func (s *Store) selectLeagues(ctx context.Context, tail string, args ...any) ([]League, error) {
	query := `
		SELECT l.id, l.league_group_id, lg.name AS group_name,
		       l.name, COALESCE(l.url, '') AS url, l.slug
		FROM league l
		JOIN league_group lg ON l.league_group_id = lg.id ` + tail
	var leagues []League
	if err := sqlx.SelectContext(ctx, s.ext, &leagues, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	return leagues, nil
}

// VenuesForLeague lists the distinct venues referenced by the league's
// fixtures, ordered by URL.
func (s *Store) VenuesForLeague(ctx context.Context, leagueID int64) ([]Venue, error) {
	var venues []Venue
	if err := sqlx.SelectContext(ctx, s.ext, &venues, `
		SELECT DISTINCT v.id, COALESCE(v.url, '') AS url,
		       COALESCE(v.name, '') AS name, COALESCE(v.address, '') AS address
		FROM fixture f
		JOIN venue v ON f.venue_id = v.id
		WHERE f.league_id = ?
		ORDER BY v.url`, leagueID); err != nil {
		return nil, fmt.Errorf("select venues for league %d: %w", leagueID, err)
	}
	return venues, nil
}

// TableCounts reports row counts across the whole schema.
func (s *Store) TableCounts(ctx context.Context) (Counts, error) {
	var c Counts
	for _, q := range []struct {
		table string
		dest  *int64
	}{
		{"league_group", &c.Groups},
		{"league", &c.Leagues},
		{"venue", &c.Venues},
		{"team", &c.Teams},
		{"fixture", &c.Fixtures},
	} {
		if err := sqlx.GetContext(ctx, s.ext, q.dest,
			`SELECT COUNT(*) FROM `+q.table); err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return c, nil
}
