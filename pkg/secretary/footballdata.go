package secretary

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/richard-senior/matchday/internal/logger"
	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
	"github.com/richard-senior/matchday/pkg/util"
)

// FootballDataURL is formatted with the season code (1718) and division (D1)
const FootballDataURL = "https://www.football-data.co.uk/mmz4281/%s/%s.csv"

// Getter fetches a remote document. transport.Client is the production implementation.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// paired statistics, football-data.co.uk home and away columns per feature
var footballDataStats = []struct {
	feature    string
	home, away string
}{
	{"Goals", "FTHG", "FTAG"},
	{"Shots", "HS", "AS"},
	{"Shots on Target", "HST", "AST"},
	{"Fouls Committed", "HF", "AF"},
	{"Corners", "HC", "AC"},
	{"Yellow Cards", "HY", "AY"},
	{"Red Cards", "HR", "AR"},
}

// bookmakers averaged when the file carries no market average
var bookies = []string{"B365", "BF", "BS", "BW", "GB", "IW", "LB", "PS", "SO", "SB", "SJ", "SY", "VC", "WH"}

// FootballData imports season files from football-data.co.uk
type FootballData struct {
	client    Getter
	cachePath string
	// Teams, when set, are the canonical names raw team names are resolved to
	Teams []string
	// MinScore is the fuzzy match score a canonical name needs (default 0.8)
	MinScore float64

	resolved map[string]string
	now      func() time.Time
}

// NewFootballData caches downloaded files under cachePath
func NewFootballData(client Getter, cachePath string) *FootballData {
	return &FootballData{
		client:    client,
		cachePath: cachePath,
		MinScore:  0.8,
		resolved:  make(map[string]string),
		now:       time.Now,
	}
}

// isCurrentSeason is true for the season still being played, whose file
// changes every matchweek
func (f *FootballData) isCurrentSeason(season string) bool {
	now := f.now()
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return season == match.SeasonStarting(year)
}

// Fetch returns the raw CSV of a season, from the cache when possible. The
// current season is always fetched again.
func (f *FootballData) Fetch(ctx context.Context, competition, season string) ([]byte, error) {
	code, err := match.FootballDataCode(competition)
	if err != nil {
		return nil, err
	}
	season, err = match.ParseSeason(season)
	if err != nil {
		return nil, err
	}
	native, err := match.FootballDataSeason(season)
	if err != nil {
		return nil, err
	}

	cacheFilename := filepath.Join(f.cachePath, fmt.Sprintf("%s-%s.csv", code, native))
	if !f.isCurrentSeason(season) {
		if data, err := os.ReadFile(cacheFilename); err == nil {
			logger.Debug("Returning data from cached file for", competition, season)
			return data, nil
		}
	}

	logger.Info("Fetching historical data from football-data.co.uk for", competition, season)
	data, err := f.client.Get(ctx, fmt.Sprintf(FootballDataURL, native, code))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s %s: %w", competition, season, err)
	}
	if err := util.WriteFileAtomic(cacheFilename, data); err != nil {
		// Continue processing even if caching fails
		logger.Warn("Failed to write cache file", cacheFilename, err)
	} else {
		logger.Debug("Cached data to", cacheFilename)
	}
	return data, nil
}

// Import fetches and parses a season
func (f *FootballData) Import(ctx context.Context, competition, season string) (*table.Table, error) {
	data, err := f.Fetch(ctx, competition, season)
	if err != nil {
		return nil, err
	}
	t, err := f.Parse(string(data), competition, season)
	if err != nil {
		return nil, err
	}
	logger.Info("Processed", t.Len(), "matches from football-data.co.uk for", competition, season)
	return t, nil
}

// Parse converts a football-data.co.uk season file into canonical match
// rows sorted by primary key, with the matchweek derived from the order
// the matches were played in
func (f *FootballData) Parse(csvData, competition, season string) (*table.Table, error) {
	season, err := match.ParseSeason(season)
	if err != nil {
		return nil, err
	}
	if !match.IsKnownCompetition(competition) {
		return nil, fmt.Errorf("unknown competition %q", competition)
	}

	reader := csv.NewReader(strings.NewReader(csvData))
	// rows are often shorter than the header, trailing bookmakers are left off
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	t := table.New(canonicalColumns()...)
	if len(records) == 0 {
		return t, nil
	}
	headers := records[0]
	headers[0] = strings.TrimPrefix(headers[0], "\ufeff")

	for i, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for j, value := range record {
			if j < len(headers) {
				row[strings.TrimSpace(headers[j])] = strings.TrimSpace(value)
			}
		}
		// Skip empty rows
		if row["HomeTeam"] == "" || row["AwayTeam"] == "" {
			continue
		}
		cells, err := f.ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cells[match.Season] = table.Str(season)
		cells[match.Competition] = table.Str(competition)
		t.Append(cells)
	}

	if err := t.SortBy(match.PrimaryKey); err != nil {
		return nil, err
	}
	if err := addMatchweek(t); err != nil {
		return nil, err
	}
	return t, match.Validate(t)
}

func canonicalColumns() []string {
	columns := []string{
		match.PrimaryKey, match.Date, match.Season, match.Competition, match.Matchweek,
		match.HomeTeam, match.AwayTeam, match.Result, match.KickOff,
	}
	for _, s := range footballDataStats {
		columns = append(columns, match.Home.Column(s.feature), match.Away.Column(s.feature))
	}
	return append(columns, match.HomeOdds, match.DrawOdds, match.AwayOdds)
}

// ParseRow converts one football-data.co.uk row keyed by header. Missing
// statistics are -1 and a missing result is UNKNOWN.
func (f *FootballData) ParseRow(row map[string]string) (map[string]table.Cell, error) {
	home := f.resolveTeam(row["HomeTeam"])
	away := f.resolveTeam(row["AwayTeam"])
	if home == "" || away == "" {
		return nil, fmt.Errorf("missing team names")
	}

	date, kickOff, err := parseFootballDataDateTime(row)
	if err != nil {
		return nil, err
	}

	cells := map[string]table.Cell{
		match.PrimaryKey: table.Str(match.NewPrimaryKey(date, home, away)),
		match.Date:       table.Str(date.Format(match.DateLayout)),
		match.HomeTeam:   table.Str(home),
		match.AwayTeam:   table.Str(away),
		match.KickOff:    table.Str(kickOff),
		match.Result:     table.UnknownText(),
	}
	switch result := row["FTR"]; result {
	case match.HomeWin, match.Draw, match.AwayWin:
		cells[match.Result] = table.Str(result)
	case "":
	default:
		return nil, fmt.Errorf("%w: result %q", table.ErrType, result)
	}

	for _, s := range footballDataStats {
		cells[match.Home.Column(s.feature)] = statistic(row[s.home])
		cells[match.Away.Column(s.feature)] = statistic(row[s.away])
	}

	h, d, a := AverageOdds(row)
	cells[match.HomeOdds] = table.Num(h)
	cells[match.DrawOdds] = table.Num(d)
	cells[match.AwayOdds] = table.Num(a)
	return cells, nil
}

func statistic(value string) table.Cell {
	if v, err := strconv.Atoi(value); err == nil {
		return table.Int(v)
	}
	return table.Missing()
}

// resolveTeam maps a raw name onto the closest of Teams. Names with no
// close enough candidate are kept as they are.
func (f *FootballData) resolveTeam(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(f.Teams) == 0 {
		return raw
	}
	if name, ok := f.resolved[raw]; ok {
		return name
	}
	best, bestScore := raw, f.MinScore
	for _, candidate := range f.Teams {
		if score := util.FuzzyMatchScore(raw, candidate); score >= bestScore {
			best, bestScore = candidate, score
		}
	}
	if best == raw {
		logger.Warn("No canonical team name for", raw)
	}
	f.resolved[raw] = best
	return best
}

// parseFootballDataDateTime reads Date (dd/mm/yyyy or dd/mm/yy) and Time,
// defaulting the kick off to 15:00 when the file carries no times
func parseFootballDataDateTime(row map[string]string) (time.Time, string, error) {
	dateStr := row["Date"]
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("no Date field found")
	}
	kickOff := row["Time"]
	if kickOff == "" {
		kickOff = "15:00"
	}

	dtStr := dateStr + " " + kickOff
	dateTimeFormats := []string{
		"02/01/2006 15:04",
		"02/01/06 15:04",
	}
	var parseErr error
	for _, format := range dateTimeFormats {
		parsed, err := time.Parse(format, dtStr)
		if err == nil {
			return parsed, parsed.Format("15:04"), nil
		}
		parseErr = err
	}
	return time.Time{}, "", fmt.Errorf("could not parse date from %s: %w", dtStr, parseErr)
}

// AverageOdds returns the home, draw and away odds of a row: the market
// average at closing, else the pre-match market average, else the mean over
// the individual bookmakers rounded to 2 places. -1 when there are none.
func AverageOdds(row map[string]string) (float64, float64, float64) {
	for _, prefix := range []string{"AvgC", "Avg"} {
		if h, d, a, ok := odds(row, prefix); ok {
			return h, d, a
		}
	}

	var homeTotal, drawTotal, awayTotal float64
	var count int
	// closing odds first, then pre-match
	for _, suffix := range []string{"C", ""} {
		for _, bookie := range bookies {
			if h, d, a, ok := odds(row, bookie+suffix); ok {
				homeTotal += h
				drawTotal += d
				awayTotal += a
				count++
			}
		}
		if count > 0 {
			n := float64(count)
			return util.RoundToDecimalPlaces(homeTotal/n, 2),
				util.RoundToDecimalPlaces(drawTotal/n, 2),
				util.RoundToDecimalPlaces(awayTotal/n, 2)
		}
	}
	return table.MissingNum, table.MissingNum, table.MissingNum
}

// odds reads the <prefix>H, <prefix>D and <prefix>A triple
func odds(row map[string]string, prefix string) (float64, float64, float64, bool) {
	var out [3]float64
	for i, suffix := range []string{"H", "D", "A"} {
		v, err := strconv.ParseFloat(row[prefix+suffix], 64)
		if err != nil || v <= 1 {
			return 0, 0, 0, false
		}
		out[i] = v
	}
	return out[0], out[1], out[2], true
}

// addMatchweek numbers each match one past the larger count of matches
// either team has already played. Rows must be in date order.
func addMatchweek(t *table.Table) error {
	t.AddColumn(match.Matchweek)
	played := make(map[string]int)
	for r := 0; r < t.Len(); r++ {
		home, away := t.Text(r, match.HomeTeam), t.Text(r, match.AwayTeam)
		mw := 1 + max(played[home], played[away])
		if err := t.Set(r, match.Matchweek, table.Int(mw)); err != nil {
			return err
		}
		played[home]++
		played[away]++
	}
	return t.Complete(match.Matchweek)
}
