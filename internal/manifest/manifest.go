// Package manifest renders the full crawled dataset as one JSON document.
// The output is deterministic: everything is sorted and timestamps are the
// stored UTC kickoffs, so an unchanged store produces identical bytes.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

// Fixture is one match in the manifest. KickoffUTC is RFC 3339.
type Fixture struct {
	Home       string `json:"home"`
	Away       string `json:"away"`
	KickoffUTC string `json:"kickoff_utc"`
	Result     string `json:"result,omitempty"`
	Location   string `json:"location"`
}

// Venue is a playing location referenced by a league's fixtures.
type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// League nests its venues and fixtures under the parent group.
type League struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Calendar string    `json:"calendar"`
	Venues   []Venue   `json:"venues"`
	Fixtures []Fixture `json:"fixtures"`
}

// Group is the top of the hierarchy.
type Group struct {
	Name    string   `json:"name"`
	Slug    string   `json:"slug"`
	Leagues []League `json:"leagues"`
}

// TeamEntry maps a team to its calendar artifact.
type TeamEntry struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Calendar string `json:"calendar"`
}

// Manifest is the document written to manifest.json.
type Manifest struct {
	Groups []Group     `json:"groups"`
	Teams  []TeamEntry `json:"teams"`
}

// Builder assembles a Manifest from the store.
type Builder struct {
	store           *store.Store
	defaultLocation string
	logger          *zap.Logger
}

// NewBuilder constructs a Builder.
func NewBuilder(st *store.Store, defaultLocation string, logger *zap.Logger) *Builder {
	return &Builder{store: st, defaultLocation: defaultLocation, logger: logger}
}

// Build reads the whole store into a Manifest.
func (b *Builder) Build(ctx context.Context) (Manifest, error) {
	var m Manifest

	groups, err := b.store.Groups(ctx)
	if err != nil {
		return m, err
	}
	for _, g := range groups {
		leagues, err := b.store.LeaguesForGroup(ctx, g.ID)
		if err != nil {
			return m, err
		}
		group := Group{Name: g.Name, Slug: g.Slug, Leagues: make([]League, 0, len(leagues))}
		for _, l := range leagues {
			league, err := b.buildLeague(ctx, l)
			if err != nil {
				return m, err
			}
			group.Leagues = append(group.Leagues, league)
		}
		m.Groups = append(m.Groups, group)
	}

	teams, err := b.store.Teams(ctx)
	if err != nil {
		return m, err
	}
	for _, t := range teams {
		m.Teams = append(m.Teams, TeamEntry{
			Name:     t.Name,
			Slug:     t.Slug,
			Calendar: t.Slug + ".ics",
		})
	}
	return m, nil
}

func (b *Builder) buildLeague(ctx context.Context, l store.League) (League, error) {
	league := League{
		Name:     l.Name,
		Slug:     l.Slug,
		Calendar: filepath.Join("leagues", l.Slug+".ics"),
		Venues:   []Venue{},
		Fixtures: []Fixture{},
	}

	venues, err := b.store.VenuesForLeague(ctx, l.ID)
	if err != nil {
		return league, err
	}
	for _, v := range venues {
		league.Venues = append(league.Venues, Venue{Name: v.Name, Address: v.Address})
	}
	sort.Slice(league.Venues, func(i, j int) bool {
		return league.Venues[i].Name < league.Venues[j].Name
	})

	fixtures, err := b.store.LeagueFixtures(ctx, l.ID, b.defaultLocation)
	if err != nil {
		return league, err
	}
	for _, f := range fixtures {
		league.Fixtures = append(league.Fixtures, Fixture{
			Home:       f.HomeName,
			Away:       f.AwayName,
			KickoffUTC: f.Kickoff.UTC().Format(time.RFC3339),
			Result:     f.Result,
			Location:   f.Location,
		})
	}
	return league, nil
}

// Write builds the manifest and writes it as indented JSON to
// <outDir>/manifest.json.
func (b *Builder) Write(ctx context.Context, outDir string) error {
	m, err := b.Build(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(outDir, "manifest.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	b.logger.Info("Wrote manifest",
		zap.String("path", path),
		zap.Int("groups", len(m.Groups)),
		zap.Int("teams", len(m.Teams)),
	)
	return nil
}
