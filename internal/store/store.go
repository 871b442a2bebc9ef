// Package store persists crawled fixture data in an embedded SQLite database.
// It exposes idempotent get-or-create operations keyed by slug or URL, an
// idempotent fixture insert, and the read queries the calendar generator,
// manifest builder, and reminder job run against.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/aydinaksel/clive-fixtures/internal/slug"
)

// Store wraps the database handle. Methods run against ext, which is either
// the pooled connection or, inside InTransaction, an open transaction.
type Store struct {
	db     *sqlx.DB
	ext    sqlx.ExtContext
	logger *zap.Logger
}

// Open connects to the SQLite database at path, creating the parent
// directory, the file, and the schema as needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The pipeline is single-threaded; a single connection also keeps
	// :memory: databases coherent across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, ext: db, logger: logger}, nil
}

// Close shuts down the underlying connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// InTransaction runs fn against a transaction-bound view of the store. The
// transaction commits only if fn returns nil; any error rolls everything
// back. The crawl engine wraps a whole run in one call, so a run is durable
// as a unit.
func (s *Store) InTransaction(ctx context.Context, fn func(*Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	child := &Store{db: s.db, ext: tx, logger: s.logger}
	if err := fn(child); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetOrCreateLeagueGroup returns the id for the named group, inserting it on
// first sight. The slug is the idempotence key: re-crawling the same group
// name always resolves to the same row.
func (s *Store) GetOrCreateLeagueGroup(ctx context.Context, name string) (int64, error) {
	key := slug.Make(name)
	if _, err := s.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO league_group(name, slug) VALUES (?, ?)`, name, key,
	); err != nil {
		return 0, fmt.Errorf("insert league group %q: %w", name, err)
	}
	var id int64
	if err := sqlx.GetContext(ctx, s.ext, &id,
		`SELECT id FROM league_group WHERE slug = ?`, key,
	); err != nil {
		return 0, fmt.Errorf("select league group %q: %w", name, err)
	}
	return id, nil
}

// GetOrCreateLeague returns the id of the league within the given group.
func (s *Store) GetOrCreateLeague(ctx context.Context, groupID int64, name, url string) (int64, error) {
	key := slug.Make(name)
	if _, err := s.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO league(league_group_id, name, url, slug) VALUES (?, ?, ?, ?)`,
		groupID, name, url, key,
	); err != nil {
		return 0, fmt.Errorf("insert league %q: %w", name, err)
	}
	var id int64
	if err := sqlx.GetContext(ctx, s.ext, &id,
		`SELECT id FROM league WHERE slug = ?`, key,
	); err != nil {
		return 0, fmt.Errorf("select league %q: %w", name, err)
	}
	return id, nil
}

// GetOrCreateVenue returns the id of the venue keyed by its source URL. A
// venue without a URL (the sentinel "Unknown" venue) is not persisted and
// yields id 0; fixtures then carry a NULL venue reference.
func (s *Store) GetOrCreateVenue(ctx context.Context, url, name, address string) (int64, error) {
	if url == "" {
		return 0, nil
	}
	if _, err := s.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO venue(url, name, address) VALUES (?, ?, ?)`, url, name, address,
	); err != nil {
		return 0, fmt.Errorf("insert venue %q: %w", url, err)
	}
	var id int64
	if err := sqlx.GetContext(ctx, s.ext, &id,
		`SELECT id FROM venue WHERE url = ?`, url,
	); err != nil {
		return 0, fmt.Errorf("select venue %q: %w", url, err)
	}
	return id, nil
}

// GetOrCreateTeam returns the id for the named team. Teams are global, not
// league-scoped: two real-world teams sharing a display name collapse into
// one row. Known modeling limitation carried over from the source site,
// which offers no disambiguation.
func (s *Store) GetOrCreateTeam(ctx context.Context, name string) (int64, error) {
	key := slug.Make(name)
	if _, err := s.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO team(name, slug) VALUES (?, ?)`, name, key,
	); err != nil {
		return 0, fmt.Errorf("insert team %q: %w", name, err)
	}
	var id int64
	if err := sqlx.GetContext(ctx, s.ext, &id,
		`SELECT id FROM team WHERE slug = ?`, key,
	); err != nil {
		return 0, fmt.Errorf("select team %q: %w", name, err)
	}
	return id, nil
}

// Fixture is the write-side record for InsertFixture. VenueID 0 means no
// venue; an empty Result means the match has not been played.
type Fixture struct {
	LeagueID   int64
	VenueID    int64
	HomeTeamID int64
	AwayTeamID int64
	Kickoff    time.Time
	Result     string
}

// InsertFixture inserts the fixture unless an identical one (same league,
// teams, and kickoff) already exists. The duplicate case is a silent no-op
// reported through the returned bool, which is how re-crawls stay idempotent.
func (s *Store) InsertFixture(ctx context.Context, f Fixture) (bool, error) {
	venueID := sql.NullInt64{Int64: f.VenueID, Valid: f.VenueID != 0}
	result := sql.NullString{String: f.Result, Valid: f.Result != ""}
	dt := f.Kickoff.UTC().Format(time.RFC3339)

	res, err := s.ext.ExecContext(ctx,
		`INSERT OR IGNORE INTO fixture(league_id, venue_id, home_team_id, away_team_id, dt_utc, result)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.LeagueID, venueID, f.HomeTeamID, f.AwayTeamID, dt, result,
	)
	if err != nil {
		return false, fmt.Errorf("insert fixture: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
