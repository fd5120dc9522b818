package engineer

import (
	"context"
	"fmt"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"golang.org/x/sync/errgroup"
)

// partition is every match of one team in one season, in table order
type partition struct {
	team   string
	season string
	rows   []int
}

// partitions splits t by team and season. Partitions are returned in order
// of first appearance so results do not depend on map iteration.
func partitions(t *table.Table, bySeason bool) ([]partition, error) {
	if err := t.Require(match.HomeTeam, match.AwayTeam, match.Season); err != nil {
		return nil, err
	}
	index := make(map[[2]string]int)
	var parts []partition
	for r := 0; r < t.Len(); r++ {
		season := ""
		if bySeason {
			season = t.Text(r, match.Season)
		}
		for _, side := range match.Sides {
			k := [2]string{t.Text(r, side.TeamColumn()), season}
			i, ok := index[k]
			if !ok {
				i = len(parts)
				index[k] = i
				parts = append(parts, partition{team: k[0], season: season})
			}
			parts[i].rows = append(parts[i].rows, r)
		}
	}
	return parts, nil
}

// Engine computes team-season partitions on a bounded pool of goroutines.
// Partitions only read the table; the merge back into it is sequential.
type Engine struct {
	workers int
}

func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{workers: workers}
}

// each runs fn for every partition and returns the results in partition order
func (e *Engine) each(ctx context.Context, parts []partition, fn func(partition) ([]Point, error)) ([][]Point, error) {
	results := make([][]Point, len(parts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range parts {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			points, err := fn(p)
			if err != nil {
				return fmt.Errorf("%s %s: %w", p.team, p.season, err)
			}
			results[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Add computes one aggregation for every team and season and writes it into
// its Home/Away column pair. The table is sorted by primary key first.
func (e *Engine) Add(ctx context.Context, t *table.Table, a Aggregation) error {
	if err := a.validate(); err != nil {
		return err
	}
	if err := t.Require(match.Home.Column(a.Feature.Name), match.Away.Column(a.Feature.Name)); err != nil {
		return err
	}
	if err := t.SortBy(match.PrimaryKey); err != nil {
		return err
	}
	parts, err := partitions(t, true)
	if err != nil {
		return err
	}

	home, away := ColumnName(match.Home, a), ColumnName(match.Away, a)
	logger.Debug("Computing", home, len(parts))

	results, err := e.each(ctx, parts, func(p partition) ([]Point, error) {
		points, err := extractRows(t, p.rows, a.Feature.Name, p.team, a.Against)
		if err != nil {
			return nil, err
		}
		aggregated, err := Aggregate(values(points), a.Window, a.Kind)
		if err != nil {
			return nil, err
		}
		for i := range points {
			points[i].Value = aggregated[i]
		}
		return points, nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", home, err)
	}
	if err := Scatter(t, home, away, results...); err != nil {
		return fmt.Errorf("%s: %w", home, err)
	}
	return nil
}

// AddAll applies every aggregation in order
func (e *Engine) AddAll(ctx context.Context, t *table.Table, aggregations []Aggregation) error {
	for _, a := range aggregations {
		if err := e.Add(ctx, t, a); err != nil {
			return err
		}
	}
	return nil
}

// AddCoachSubstituted flags a coach change within the last lag matches of the season
func (e *Engine) AddCoachSubstituted(ctx context.Context, t *table.Table, lag int) error {
	return e.Add(ctx, t, Aggregation{Feature: Coach, Kind: Changed, Window: lag})
}
