package store

// schemaSQL creates the relational schema on first open. Every entity is
// addressable by a slug derived from its display name; fixtures are unique
// per (league, home, away, kickoff) so re-crawls never duplicate rows.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS league_group (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS venue (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    url     TEXT UNIQUE,
    name    TEXT,
    address TEXT
);

CREATE TABLE IF NOT EXISTS league (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    league_group_id INTEGER NOT NULL REFERENCES league_group(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    url             TEXT UNIQUE,
    slug            TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS team (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    slug TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS fixture (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    league_id    INTEGER NOT NULL REFERENCES league(id) ON DELETE CASCADE,
    venue_id     INTEGER REFERENCES venue(id),
    home_team_id INTEGER NOT NULL REFERENCES team(id),
    away_team_id INTEGER NOT NULL REFERENCES team(id),
    dt_utc       TEXT NOT NULL,
    result       TEXT,
    UNIQUE(league_id, home_team_id, away_team_id, dt_utc)
);
`
