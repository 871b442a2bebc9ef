package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

// Engine drives the full traversal: league groups, their leagues, and each
// league's fixtures and venue. The traversal is deliberately sequential with
// pauses between leagues; the target site is not built for concurrent
// scraping.
type Engine struct {
	cfg     Config
	fetcher Fetcher
	store   *store.Store
	logger  *zap.Logger
	pause   pauser

	// venueAddresses caches resolved addresses per venue URL for the
	// lifetime of one engine, i.e. one crawl run.
	venueAddresses map[string]string
}

// NewEngine constructs an Engine. The fetcher is expected to already carry
// the retry policy.
func NewEngine(cfg Config, fetcher Fetcher, st *store.Store, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:            cfg,
		fetcher:        fetcher,
		store:          st,
		logger:         logger,
		pause:          &timerPauser{},
		venueAddresses: make(map[string]string),
	}
}

// Run executes one crawl pass. All writes happen inside a single
// transaction: the run commits as a unit or not at all. Failing to discover
// any league group is fatal; every lower-level failure is logged and the
// run continues with the next item.
func (e *Engine) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	doc, err := e.fetchDocument(ctx, e.cfg.LeaguePageURL)
	if err != nil {
		return stats, fmt.Errorf("fetch league listing: %w", err)
	}
	groups := ExtractLeagueGroups(doc)
	if len(groups) == 0 {
		return stats, fmt.Errorf("no league groups found on %s", e.cfg.LeaguePageURL)
	}
	if e.cfg.Limit > 0 && len(groups) > e.cfg.Limit {
		groups = groups[:e.cfg.Limit]
	}

	err = e.store.InTransaction(ctx, func(tx *store.Store) error {
		for _, group := range groups {
			if err := e.crawlGroup(ctx, tx, group, &stats); err != nil {
				return err
			}
			e.pause.Pause(ctx, e.cfg.GroupDelay)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	e.logger.Info("Crawl run complete",
		zap.Int("groups", stats.Groups),
		zap.Int("leagues", stats.Leagues),
		zap.Int("fixtures_inserted", stats.Fixtures),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("rows_skipped", stats.SkippedRows),
		zap.Int("failed_fetches", stats.FailedFetches),
	)
	return stats, nil
}

func (e *Engine) crawlGroup(ctx context.Context, tx *store.Store, group LeagueGroupLink, stats *RunStats) error {
	e.logger.Info("Processing league group", zap.String("group", group.Name))

	groupID, err := tx.GetOrCreateLeagueGroup(ctx, group.Name)
	if err != nil {
		return err
	}
	stats.Groups++

	doc, err := e.fetchDocument(ctx, e.absoluteURL(group.URL))
	if err != nil {
		if isFatal(err) {
			return err
		}
		stats.FailedFetches++
		return nil
	}

	for _, league := range ExtractLeagues(doc) {
		if err := e.crawlLeague(ctx, tx, groupID, league, stats); err != nil {
			return err
		}
		// Throttle between leagues to bound the request rate.
		e.pause.Pause(ctx, e.cfg.LeagueDelay)
	}
	return nil
}

func (e *Engine) crawlLeague(ctx context.Context, tx *store.Store, groupID int64, league LeagueLink, stats *RunStats) error {
	e.logger.Info("Processing league", zap.String("league", league.Name))

	leagueID, err := tx.GetOrCreateLeague(ctx, groupID, league.Name, league.URL)
	if err != nil {
		return err
	}
	stats.Leagues++

	doc, err := e.fetchDocument(ctx, e.absoluteURL(league.URL))
	if err != nil {
		if isFatal(err) {
			return err
		}
		stats.FailedFetches++
		return nil
	}

	fixtures, venue, skipped := ExtractFixturesAndVenue(doc, e.cfg.Timezone, e.cfg.DefaultLocation)
	if skipped > 0 {
		stats.SkippedRows += skipped
		rowsSkippedTotal.Add(float64(skipped))
		e.logger.Warn("Skipped malformed fixture rows",
			zap.String("league", league.Name),
			zap.Int("skipped", skipped),
		)
	}

	if venue.URL != "" {
		venue.Address = e.resolveVenueAddress(ctx, venue.URL)
	}
	venueID, err := tx.GetOrCreateVenue(ctx, venue.URL, venue.Name, venue.Address)
	if err != nil {
		return err
	}

	for _, record := range fixtures {
		if err := e.persistFixture(ctx, tx, leagueID, venueID, record, stats); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) persistFixture(ctx context.Context, tx *store.Store, leagueID, venueID int64, record FixtureRecord, stats *RunStats) error {
	homeID, err := tx.GetOrCreateTeam(ctx, record.HomeName)
	if err != nil {
		return err
	}
	awayID, err := tx.GetOrCreateTeam(ctx, record.AwayName)
	if err != nil {
		return err
	}
	if homeID == awayID {
		// A fixture must reference two distinct teams.
		stats.SkippedRows++
		rowsSkippedTotal.Inc()
		e.logger.Warn("Skipping fixture with identical team references",
			zap.String("home", record.HomeName),
			zap.String("away", record.AwayName),
		)
		return nil
	}

	inserted, err := tx.InsertFixture(ctx, store.Fixture{
		LeagueID:   leagueID,
		VenueID:    venueID,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Kickoff:    record.Kickoff,
		Result:     record.Result,
	})
	if err != nil {
		return err
	}
	if inserted {
		stats.Fixtures++
		fixturesInsertedTotal.Inc()
	} else {
		stats.Duplicates++
		fixturesDuplicateTotal.Inc()
	}
	return nil
}

// resolveVenueAddress fetches the venue page and extracts its address,
// caching the result per venue URL for the rest of the run. Fetch failure
// degrades to the default location, cached too so the URL is not retried.
func (e *Engine) resolveVenueAddress(ctx context.Context, venueURL string) string {
	if address, ok := e.venueAddresses[venueURL]; ok {
		return address
	}

	address := e.cfg.DefaultLocation
	doc, err := e.fetchDocument(ctx, e.absoluteURL(venueURL))
	if err == nil {
		address = ExtractVenueAddress(doc, e.cfg.DefaultLocation)
	}
	e.venueAddresses[venueURL] = address
	return address
}

func (e *Engine) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

func (e *Engine) absoluteURL(relative string) string {
	if strings.HasPrefix(relative, "http://") || strings.HasPrefix(relative, "https://") {
		return relative
	}
	return strings.TrimRight(e.cfg.BaseURL, "/") + relative
}

// isFatal reports whether a fetch error should abort the run instead of
// degrading to "no data for this URL".
func isFatal(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
