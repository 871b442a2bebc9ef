package calendar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/aydinaksel/clive-fixtures/internal/store"
)

// Generator writes one .ics file per team and per league into the output
// directory. Entities without fixtures produce no file, matching the
// source's "no data, no artifact" behavior.
type Generator struct {
	store           *store.Store
	outDir          string
	tz              *time.Location
	defaultLocation string
	logger          *zap.Logger
}

// Summary reports what a generation pass produced.
type Summary struct {
	TeamCalendars   int
	LeagueCalendars int
}

// NewGenerator constructs a Generator.
func NewGenerator(st *store.Store, outDir string, tz *time.Location, defaultLocation string, logger *zap.Logger) *Generator {
	return &Generator{
		store:           st,
		outDir:          outDir,
		tz:              tz,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// GenerateAll writes every team and league calendar.
func (g *Generator) GenerateAll(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := os.MkdirAll(filepath.Join(g.outDir, "leagues"), 0o755); err != nil {
		return summary, fmt.Errorf("create output directory: %w", err)
	}

	teams, err := g.store.Teams(ctx)
	if err != nil {
		return summary, err
	}
	for _, team := range teams {
		fixtures, err := g.store.TeamFixtures(ctx, team.ID, g.defaultLocation)
		if err != nil {
			return summary, err
		}
		if len(fixtures) == 0 {
			g.logger.Info("No fixtures for team; skipping calendar", zap.String("team", team.Name))
			continue
		}
		path := filepath.Join(g.outDir, team.Slug+".ics")
		if err := g.write(path, BuildTeamCalendar(team, fixtures, g.tz).Serialize()); err != nil {
			return summary, err
		}
		summary.TeamCalendars++
	}

	leagues, err := g.store.Leagues(ctx)
	if err != nil {
		return summary, err
	}
	for _, league := range leagues {
		fixtures, err := g.store.LeagueFixtures(ctx, league.ID, g.defaultLocation)
		if err != nil {
			return summary, err
		}
		if len(fixtures) == 0 {
			g.logger.Info("No fixtures for league; skipping calendar", zap.String("league", league.Name))
			continue
		}
		path := filepath.Join(g.outDir, "leagues", league.Slug+".ics")
		if err := g.write(path, BuildLeagueCalendar(league, fixtures, g.tz).Serialize()); err != nil {
			return summary, err
		}
		summary.LeagueCalendars++
	}

	g.logger.Info("Calendar generation complete",
		zap.Int("team_calendars", summary.TeamCalendars),
		zap.Int("league_calendars", summary.LeagueCalendars),
	)
	return summary, nil
}

func (g *Generator) write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write calendar %s: %w", path, err)
	}
	g.logger.Info("Wrote calendar", zap.String("path", path))
	return nil
}
