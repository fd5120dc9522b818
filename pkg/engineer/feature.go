// Package engineer computes as-of-matchday features for the shared match
// table: rolling aggregates per team and season, table positions and the
// simple per-match derived features the models train on.
package engineer

import (
	"fmt"

	"github.com/richard-senior/matchday/pkg/match"
	"github.com/richard-senior/matchday/pkg/table"
)

// Kind selects the reduction applied over a team's preceding matches
type Kind int

const (
	Mean Kind = iota
	EWMMean
	Max
	Min
	Changed
)

// Label is the token used in generated column names
func (k Kind) Label() string {
	switch k {
	case Mean:
		return "MA"
	case EWMMean:
		return "EWMA"
	case Max:
		return "MAX"
	case Min:
		return "MIN"
	case Changed:
		return "Substituted"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) String() string {
	return k.Label()
}

// ValueType is the type of a feature's values
type ValueType int

const (
	Numeric ValueType = iota
	Categorical
)

// Feature describes a paired Home/Away column family
type Feature struct {
	Name string
	Type ValueType
	Fill table.Cell
}

// NumericFeature is a paired numeric feature filled with -1
func NumericFeature(name string) Feature {
	return Feature{Name: name, Type: Numeric, Fill: table.Missing()}
}

// Coach is the categorical feature used for substitution detection
var Coach = Feature{Name: "Coach", Type: Categorical, Fill: table.Flag(false)}

// Aggregation is one engineered column pair
type Aggregation struct {
	Feature Feature
	Kind    Kind
	Window  int
	Against bool
}

func (a Aggregation) validate() error {
	if a.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", a.Window)
	}
	if a.Kind == Changed && a.Feature.Type != Categorical {
		return fmt.Errorf("%s: change detection needs a categorical feature", a.Feature.Name)
	}
	if a.Kind != Changed && a.Feature.Type != Numeric {
		return fmt.Errorf("%s: %s needs a numeric feature", a.Feature.Name, a.Kind)
	}
	return nil
}

// Variants returns the eight rolling aggregations of a feature for one window
// in the order MA, EWMA, MAX, MIN, each followed by its Against twin
func Variants(f Feature, window int) []Aggregation {
	var out []Aggregation
	for _, k := range []Kind{Mean, EWMMean, Max, Min} {
		out = append(out,
			Aggregation{Feature: f, Kind: k, Window: window},
			Aggregation{Feature: f, Kind: k, Window: window, Against: true},
		)
	}
	return out
}

// ColumnName formats the output column of an aggregation for one side:
//
//	Home MA Goals Last 3 Games Before Matchday
//	Away EWMA Goals Against Last 5 Games Before Matchday
//	Home Coach Substituted Within Last 3 Games
func ColumnName(side match.Side, a Aggregation) string {
	if a.Kind == Changed {
		return fmt.Sprintf("%s %s %s Within Last %d Games", side, a.Feature.Name, a.Kind.Label(), a.Window)
	}
	against := ""
	if a.Against {
		against = " Against"
	}
	return fmt.Sprintf("%s %s %s%s Last %d Games Before Matchday", side, a.Kind.Label(), a.Feature.Name, against, a.Window)
}

// Column names of the derived features
const (
	CurrentPositionColumn = "Current Position Before Matchday"
	DaysSinceLast         = "Days Since Last Game"
	Points                = "Points"
	Goals                 = "Goals"
	PromotedLastYear      = "Promoted Last Year"
)

// KickOffBeforeColumn is "Kick Off Before 17:00" for hour 17
func KickOffBeforeColumn(hour int) string {
	return fmt.Sprintf("Kick Off Before %02d:00", hour)
}
