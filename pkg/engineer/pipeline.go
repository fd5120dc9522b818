package engineer

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/config"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
)

// Pipeline turns the merged base table into the production feature table
type Pipeline struct {
	cfg    *config.Config
	engine *Engine
}

func NewPipeline(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, engine: NewEngine(cfg.Workers)}
}

// Aggregations lists every rolling aggregation the pipeline adds, feature by
// feature and window by window
func (p *Pipeline) Aggregations() []Aggregation {
	var out []Aggregation
	for _, name := range p.cfg.Features {
		for _, w := range p.cfg.Windows {
			out = append(out, Variants(NumericFeature(name), w)...)
		}
	}
	return out
}

// Build engineers the configured seasons of base. The returned table is a
// new table; base is not modified.
func (p *Pipeline) Build(ctx context.Context, base *table.Table, coaches []CoachSpell, promotions []Promotion) (*table.Table, error) {
	start := time.Now()
	if err := base.Require(match.Season, match.Result, match.Competition); err != nil {
		return nil, err
	}

	seasons := p.cfg.Seasons()
	t := base.Filter(func(r int) bool {
		return slices.Contains(seasons, base.Text(r, match.Season)) && base.Text(r, match.Result) != table.Unknown
	})
	if t.Len() == 0 {
		return nil, fmt.Errorf("no played matches in seasons %v", seasons)
	}
	if err := t.SortBy(match.PrimaryKey); err != nil {
		return nil, err
	}
	logger.Info("Engineering", t.Len(), "matches of", len(seasons), "seasons")

	steps := []struct {
		name string
		run  func() error
	}{
		{"days since last game", func() error { return AddDaysSinceLastGame(t) }},
		{"days since last game cap", func() error { return SetMaximum(t, DaysSinceLast, p.cfg.DaysSinceLastCap) }},
		{"competitions", func() error {
			t = t.Filter(func(r int) bool { return match.IsKnownCompetition(t.Text(r, match.Competition)) })
			return nil
		}},
		{"coach", func() error { return AddCoach(t, coaches) }},
		{"coach substituted", func() error { return p.engine.AddCoachSubstituted(ctx, t, p.cfg.CoachLag) }},
		{"points", func() error { return AddPoints(t) }},
		{"promoted last year", func() error { return AddPromotedLastYear(t, promotions) }},
		{"kick off", func() error { return AddKickOffBefore(t, p.cfg.KickOffBorderHour) }},
		{"current position", func() error { return AddCurrentPosition(t, p.cfg.PositionOffset) }},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.run(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		logger.Debug("Added", s.name)
	}

	aggregations := p.Aggregations()
	if err := p.engine.AddAll(ctx, t, aggregations); err != nil {
		return nil, err
	}

	logger.Info("Engineered", len(aggregations), "aggregations in", time.Since(start).Round(time.Millisecond).String())
	return t, nil
}
