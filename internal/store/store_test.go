package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLocation = "301 Huntington Rd, Huntington, York YO32 9WT"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateLeagueGroup(ctx, "Accrington - Weds")
	require.NoError(t, err)
	second, err := s.GetOrCreateLeagueGroup(ctx, "Accrington - Weds")
	require.NoError(t, err)
	require.Equal(t, first, second)

	leagueA, err := s.GetOrCreateLeague(ctx, first, "Division A", "/info/leagues/1")
	require.NoError(t, err)
	leagueB, err := s.GetOrCreateLeague(ctx, first, "Division A", "/info/leagues/1")
	require.NoError(t, err)
	require.Equal(t, leagueA, leagueB)

	teamA, err := s.GetOrCreateTeam(ctx, "TeamX")
	require.NoError(t, err)
	teamB, err := s.GetOrCreateTeam(ctx, "TeamX")
	require.NoError(t, err)
	require.Equal(t, teamA, teamB)

	venueA, err := s.GetOrCreateVenue(ctx, "/info/venues/42", "Hunt Park", "12 Park Rd")
	require.NoError(t, err)
	venueB, err := s.GetOrCreateVenue(ctx, "/info/venues/42", "Hunt Park", "12 Park Rd")
	require.NoError(t, err)
	require.Equal(t, venueA, venueB)

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, Counts{Groups: 1, Leagues: 1, Venues: 1, Teams: 1, Fixtures: 0}, counts)
}

// TestGetOrCreateVenueWithoutURL confirms the sentinel venue is never
// persisted; the fixture simply carries no venue reference.
func TestGetOrCreateVenueWithoutURL(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.GetOrCreateVenue(ctx, "", "Unknown", testLocation)
	require.NoError(t, err)
	require.Zero(t, id)

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	require.Zero(t, counts.Venues)
}

func TestInsertFixtureUniqueness(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	groupID, err := s.GetOrCreateLeagueGroup(ctx, "Accrington - Weds")
	require.NoError(t, err)
	leagueID, err := s.GetOrCreateLeague(ctx, groupID, "Division A", "/info/leagues/1")
	require.NoError(t, err)
	home, err := s.GetOrCreateTeam(ctx, "TeamX")
	require.NoError(t, err)
	away, err := s.GetOrCreateTeam(ctx, "TeamY")
	require.NoError(t, err)

	kickoff := time.Date(2025, 5, 19, 20, 45, 0, 0, time.UTC)
	f := Fixture{LeagueID: leagueID, HomeTeamID: home, AwayTeamID: away, Kickoff: kickoff}

	inserted, err := s.InsertFixture(ctx, f)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = s.InsertFixture(ctx, f)
	require.NoError(t, err)
	require.False(t, inserted, "duplicate fixture must be a no-op")

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts.Fixtures)
}

func TestTeamFixturesOrderedByKickoff(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	groupID, err := s.GetOrCreateLeagueGroup(ctx, "Accrington - Weds")
	require.NoError(t, err)
	leagueID, err := s.GetOrCreateLeague(ctx, groupID, "Division A", "/info/leagues/1")
	require.NoError(t, err)
	venueID, err := s.GetOrCreateVenue(ctx, "/info/venues/42", "Hunt Park", "12 Park Rd")
	require.NoError(t, err)
	teamX, err := s.GetOrCreateTeam(ctx, "TeamX")
	require.NoError(t, err)
	teamY, err := s.GetOrCreateTeam(ctx, "TeamY")
	require.NoError(t, err)
	teamZ, err := s.GetOrCreateTeam(ctx, "TeamZ")
	require.NoError(t, err)

	// Inserted newest-first to prove ordering comes from the query.
	later := time.Date(2025, 5, 19, 20, 45, 0, 0, time.UTC)
	earlier := time.Date(2025, 5, 12, 20, 45, 0, 0, time.UTC)

	_, err = s.InsertFixture(ctx, Fixture{
		LeagueID: leagueID, VenueID: venueID,
		HomeTeamID: teamX, AwayTeamID: teamY, Kickoff: later,
	})
	require.NoError(t, err)
	_, err = s.InsertFixture(ctx, Fixture{
		LeagueID: leagueID, VenueID: venueID,
		HomeTeamID: teamX, AwayTeamID: teamZ, Kickoff: earlier, Result: "3-1",
	})
	require.NoError(t, err)

	fixtures, err := s.TeamFixtures(ctx, teamX, testLocation)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	require.Equal(t, earlier, fixtures[0].Kickoff)
	require.Equal(t, later, fixtures[1].Kickoff)
	require.Equal(t, "3-1", fixtures[0].Result)
	require.Empty(t, fixtures[1].Result)
	require.Equal(t, "12 Park Rd", fixtures[0].Location)
}

// TestFixtureLocationFallsBack ensures fixtures without a venue report the
// configured default location.
func TestFixtureLocationFallsBack(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	groupID, err := s.GetOrCreateLeagueGroup(ctx, "Accrington - Weds")
	require.NoError(t, err)
	leagueID, err := s.GetOrCreateLeague(ctx, groupID, "Division A", "/info/leagues/1")
	require.NoError(t, err)
	home, err := s.GetOrCreateTeam(ctx, "TeamX")
	require.NoError(t, err)
	away, err := s.GetOrCreateTeam(ctx, "TeamY")
	require.NoError(t, err)

	_, err = s.InsertFixture(ctx, Fixture{
		LeagueID: leagueID, HomeTeamID: home, AwayTeamID: away,
		Kickoff: time.Date(2025, 5, 19, 20, 45, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	fixtures, err := s.LeagueFixtures(ctx, leagueID, testLocation)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	require.Equal(t, testLocation, fixtures[0].Location)
}

func TestLookupsBySlug(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	groupID, err := s.GetOrCreateLeagueGroup(ctx, "Accrington - Weds")
	require.NoError(t, err)
	_, err = s.GetOrCreateLeague(ctx, groupID, "Division A", "/info/leagues/1")
	require.NoError(t, err)
	_, err = s.GetOrCreateTeam(ctx, "CLIVE OWEN & CO")
	require.NoError(t, err)

	team, err := s.TeamBySlug(ctx, "clive_owen_co")
	require.NoError(t, err)
	require.Equal(t, "CLIVE OWEN & CO", team.Name)

	byName, err := s.TeamByName(ctx, "CLIVE OWEN & CO")
	require.NoError(t, err)
	require.Equal(t, team.ID, byName.ID)

	league, err := s.LeagueBySlug(ctx, "division_a")
	require.NoError(t, err)
	require.Equal(t, "Accrington - Weds", league.GroupName)

	_, err = s.TeamBySlug(ctx, "missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestInTransactionRollsBackOnError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := s.InTransaction(ctx, func(tx *Store) error {
		if _, err := tx.GetOrCreateTeam(ctx, "TeamX"); err != nil {
			return err
		}
		return sentinel
	})
	require.True(t, errors.Is(err, sentinel))

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	require.Zero(t, counts.Teams, "rolled-back writes must not persist")
}

func TestInTransactionCommits(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InTransaction(ctx, func(tx *Store) error {
		_, err := tx.GetOrCreateTeam(ctx, "TeamX")
		return err
	}))

	counts, err := s.TableCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts.Teams)
}
