package match

import (
	"fmt"
	"slices"
)

const (
	Bundesliga    = "Bundesliga"
	PremierLeague = "Premier League"
	LaLiga        = "La Liga"
	SerieA        = "Serie A"
	Ligue1        = "Ligue 1"
)

// footballDataCodes maps each competition onto its football-data.co.uk division code
var footballDataCodes = map[string]string{
	Bundesliga:    "D1",
	PremierLeague: "E0",
	LaLiga:        "SP1",
	SerieA:        "I1",
	Ligue1:        "F1",
}

// Competitions returns the leagues the pipeline engineers features for
func Competitions() []string {
	return []string{Bundesliga, PremierLeague, LaLiga, SerieA, Ligue1}
}

func IsKnownCompetition(c string) bool {
	return slices.Contains(Competitions(), c)
}

// FootballDataCode returns the division code for a competition
func FootballDataCode(competition string) (string, error) {
	code, ok := footballDataCodes[competition]
	if !ok {
		return "", fmt.Errorf("competition %q has no football-data.co.uk division", competition)
	}
	return code, nil
}

// CompetitionForCode is the inverse of FootballDataCode
func CompetitionForCode(code string) (string, error) {
	for c, k := range footballDataCodes {
		if k == code {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown football-data.co.uk division %q", code)
}
