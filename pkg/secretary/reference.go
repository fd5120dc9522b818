package secretary

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/engineer"
	"github.com/richard-senior/matchday/pkg/match"
)

// Coach reference columns
const (
	CoachTeam    = "Team"
	CoachName    = "Coach"
	CoachStarted = "Started"
	CoachEnded   = "Ended"
)

// Promotion reference columns
const (
	PromotionTeam   = "Team"
	PromotionSeason = "Is Promoted"
)

// LoadCoaches reads coach spells with ISO Started and Ended dates
func LoadCoaches(path string) ([]engineer.CoachSpell, error) {
	t, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require(CoachTeam, CoachName, CoachStarted, CoachEnded); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	spells := make([]engineer.CoachSpell, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		started, err := match.ParseDate(t.Text(r, CoachStarted))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, r+2, err)
		}
		ended, err := match.ParseDate(t.Text(r, CoachEnded))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, r+2, err)
		}
		if ended.Before(started) {
			return nil, fmt.Errorf("%s row %d: spell of %s ends before it starts", path, r+2, t.Text(r, CoachName))
		}
		spells = append(spells, engineer.CoachSpell{
			Team:    t.Text(r, CoachTeam),
			Coach:   t.Text(r, CoachName),
			Started: started,
			Ended:   ended,
		})
	}
	return spells, nil
}

// LoadPromotions reads the teams promoted for each season
func LoadPromotions(path string) ([]engineer.Promotion, error) {
	t, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if err := t.Require(PromotionTeam, PromotionSeason); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	promotions := make([]engineer.Promotion, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		season, err := match.ParseSeason(t.Text(r, PromotionSeason))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, r+2, err)
		}
		promotions = append(promotions, engineer.Promotion{Team: t.Text(r, PromotionTeam), Season: season})
	}
	return promotions, nil
}
