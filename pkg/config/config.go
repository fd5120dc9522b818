package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains every tunable used by the pipeline
// This centralizes all magic numbers and constants for easy adjustment
type Config struct {
	// Paths
	DataPath  string `yaml:"dataPath"`  // base directory for CSV inputs and outputs
	CachePath string `yaml:"cachePath"` // downloaded football-data.co.uk seasons
	DbPath    string `yaml:"dbPath"`    // sqlite database
	LogPath   string `yaml:"logPath"`   // log file used when logging to file

	// === SEASONS ===
	StartingSeason int `yaml:"startingSeason"` // first year of the first season engineered (default: 2017)
	EndingSeason   int `yaml:"endingSeason"`   // first year of the first season NOT engineered (default: 2022)

	// === FEATURE ENGINEERING ===
	Features          []string `yaml:"features"`          // raw paired features to aggregate
	Windows           []int    `yaml:"windows"`           // lookback windows in matches (default: 3, 5)
	PositionOffset    int      `yaml:"positionOffset"`    // matchweeks without a meaningful table position (default: 3)
	CoachLag          int      `yaml:"coachLag"`          // lag for coach substitution detection (default: 3)
	DaysSinceLastCap  float64  `yaml:"daysSinceLastCap"`  // clip for Days Since Last Game (default: 21)
	KickOffBorderHour int      `yaml:"kickOffBorderHour"` // hour of the early kick off flag (default: 17)
	Workers           int      `yaml:"workers"`           // concurrent team-season partitions (default: 4)

	// === PREDICTION ===
	PredictionWindow int     `yaml:"predictionWindow"` // window of the moving averages feeding the Poisson model (default: 5)
	MaxGoals         int     `yaml:"maxGoals"`         // score matrix covers 0..MaxGoals-1 (default: 9)
	DixonColesRho    float64 `yaml:"dixonColesRho"`    // low score correlation (default: -0.03)
	ModelName        string  `yaml:"modelName"`        // prefix of the probability columns (default: poisson)

	// === BETTING ===
	Budget       float64 `yaml:"budget"`       // starting bankroll (default: 100)
	SafetyFactor float64 `yaml:"safetyFactor"` // Kelly stake divisor (default: 5)
	Alpha        float64 `yaml:"alpha"`        // required edge over the bookmaker (default: 0.05)

	// === TRANSPORT ===
	HttpTimeout     time.Duration `yaml:"httpTimeout"`     // per request (default: 30s)
	UserAgent       string        `yaml:"userAgent"`       // sent with every request
	BreakerFailures uint32        `yaml:"breakerFailures"` // consecutive failures that open the breaker (default: 3)
	BreakerCooldown time.Duration `yaml:"breakerCooldown"` // time the breaker stays open (default: 60s)
	CABundlePath    string        `yaml:"caBundlePath"`    // optional extra root certificates
}

// Default returns the default configuration with all standard values
func Default() *Config {
	base := filepath.Join(os.TempDir(), "matchday")
	return &Config{
		DataPath:  base,
		CachePath: filepath.Join(base, "cache"),
		DbPath:    filepath.Join(base, "matchday.db"),
		LogPath:   filepath.Join(base, "matchday.log"),

		StartingSeason: 2017,
		EndingSeason:   2022,

		// the paired statistics of a football-data.co.uk season file, plus Points
		Features: []string{
			"Goals",
			"Shots",
			"Shots on Target",
			"Fouls Committed",
			"Corners",
			"Yellow Cards",
			"Red Cards",
			"Points",
		},
		Windows:           []int{3, 5},
		PositionOffset:    3,
		CoachLag:          3,
		DaysSinceLastCap:  21,
		KickOffBorderHour: 17,
		Workers:           4,

		PredictionWindow: 5,
		MaxGoals:         9,
		DixonColesRho:    -0.03,
		ModelName:        "poisson",

		Budget:       100,
		SafetyFactor: 5,
		Alpha:        0.05,

		HttpTimeout:     30 * time.Second,
		UserAgent:       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		BreakerFailures: 3,
		BreakerCooldown: 60 * time.Second,
	}
}

// Load overlays the YAML file at path on the defaults and validates the result
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return c, nil
}

// === CONFIGURATION VALIDATION ===

// Validate ensures all configuration values are within reasonable ranges
func Validate(c *Config) error {
	if c.EndingSeason <= c.StartingSeason {
		return fmt.Errorf("EndingSeason must be after StartingSeason, got: %d <= %d", c.EndingSeason, c.StartingSeason)
	}
	if len(c.Features) == 0 {
		return fmt.Errorf("at least one feature is required")
	}
	if len(c.Windows) == 0 {
		return fmt.Errorf("at least one window is required")
	}
	for _, w := range c.Windows {
		if w < 1 {
			return fmt.Errorf("windows must be positive, got: %d", w)
		}
	}
	if c.PositionOffset < 0 {
		return fmt.Errorf("PositionOffset must not be negative, got: %d", c.PositionOffset)
	}
	if c.CoachLag < 1 {
		return fmt.Errorf("CoachLag must be at least 1, got: %d", c.CoachLag)
	}
	if c.DaysSinceLastCap <= 0 {
		return fmt.Errorf("DaysSinceLastCap must be positive, got: %f", c.DaysSinceLastCap)
	}
	if c.KickOffBorderHour < 0 || c.KickOffBorderHour > 23 {
		return fmt.Errorf("KickOffBorderHour must be between 0 and 23, got: %d", c.KickOffBorderHour)
	}
	if c.Workers < 1 {
		return fmt.Errorf("Workers must be at least 1, got: %d", c.Workers)
	}
	if c.PredictionWindow < 1 {
		return fmt.Errorf("PredictionWindow must be at least 1, got: %d", c.PredictionWindow)
	}
	if c.MaxGoals < 3 {
		return fmt.Errorf("MaxGoals should be at least 3 to capture realistic scores, got: %d", c.MaxGoals)
	}
	if c.DixonColesRho > 0 || c.DixonColesRho < -0.1 {
		return fmt.Errorf("DixonColesRho should be between -0.1 and 0, got: %f", c.DixonColesRho)
	}
	if c.ModelName == "" {
		return fmt.Errorf("ModelName is required")
	}
	if c.Budget <= 0 {
		return fmt.Errorf("Budget must be positive, got: %f", c.Budget)
	}
	if c.SafetyFactor < 1 {
		return fmt.Errorf("SafetyFactor must be at least 1, got: %f", c.SafetyFactor)
	}
	if c.Alpha < 0 || c.Alpha >= 1 {
		return fmt.Errorf("Alpha must be in [0, 1), got: %f", c.Alpha)
	}
	if c.HttpTimeout <= 0 {
		return fmt.Errorf("HttpTimeout must be positive, got: %s", c.HttpTimeout)
	}
	if c.BreakerFailures == 0 {
		return fmt.Errorf("BreakerFailures must be at least 1")
	}
	return nil
}

// === HELPER FUNCTIONS FOR EASY ACCESS ===

// Seasons lists the engineered seasons as YYYY-YYYY
func (c *Config) Seasons() []string {
	var out []string
	for y := c.StartingSeason; y < c.EndingSeason; y++ {
		out = append(out, fmt.Sprintf("%04d-%04d", y, y+1))
	}
	return out
}
