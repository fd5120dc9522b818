package match

import (
	"fmt"
	"regexp"

	"github.com/richard-senior/matchday/pkg/util"
)

var seasonPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// ParseSeason normalises a season to YYYY-YYYY. Accepted inputs are
// YYYY-YYYY, YYYY/YYYY, the short forms YYYY-YY and YYYY/YY, and the
// football-data.co.uk code YYZZ as in 1718.
func ParseSeason(season any) (string, error) {
	if season == nil {
		return "", fmt.Errorf("must pass a season")
	}
	ss, err := util.GetAsString(season)
	if err != nil {
		return "", err
	}

	var first, second string
	switch {
	case len(ss) == 9 && (ss[4] == '-' || ss[4] == '/'):
		first, second = ss[:4], ss[5:]
	case len(ss) == 7 && (ss[4] == '-' || ss[4] == '/'):
		first, second = ss[:4], ss[:2]+ss[5:]
	case len(ss) == 4:
		first, second = "20"+ss[:2], "20"+ss[2:]
	default:
		return "", fmt.Errorf("invalid season format: %s", ss)
	}

	a, err := util.GetAsInteger(first)
	if err != nil {
		return "", fmt.Errorf("invalid season %s: %w", ss, err)
	}
	b, err := util.GetAsInteger(second)
	if err != nil {
		return "", fmt.Errorf("invalid season %s: %w", ss, err)
	}
	if b != a+1 {
		return "", fmt.Errorf("invalid season %s: second year must follow the first", ss)
	}
	return fmt.Sprintf("%04d-%04d", a, b), nil
}

// IsSeason reports whether s is already a canonical YYYY-YYYY season
func IsSeason(s string) bool {
	if !seasonPattern.MatchString(s) {
		return false
	}
	_, err := ParseSeason(s)
	return err == nil
}

// FirstYear returns 2017 for 2017-2018
func FirstYear(season any) (int, error) {
	s, err := ParseSeason(season)
	if err != nil {
		return 0, err
	}
	return util.GetAsInteger(s[:4])
}

// SeasonStarting returns the season whose first year is year
func SeasonStarting(year int) string {
	return fmt.Sprintf("%04d-%04d", year, year+1)
}

// SeasonsBetween lists every season from the one starting in first up to,
// but excluding, the one starting in last
func SeasonsBetween(first, last int) []string {
	var out []string
	for y := first; y < last; y++ {
		out = append(out, SeasonStarting(y))
	}
	return out
}

// IsSameSeason returns true if both values name the same season
func IsSameSeason(s1, s2 any) (bool, error) {
	a, err := ParseSeason(s1)
	if err != nil {
		return false, err
	}
	b, err := ParseSeason(s2)
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// FootballDataSeason converts 2017-2018 to the 1718 path element used by football-data.co.uk
func FootballDataSeason(season string) (string, error) {
	s, err := ParseSeason(season)
	if err != nil {
		return "", err
	}
	return s[2:4] + s[7:9], nil
}
