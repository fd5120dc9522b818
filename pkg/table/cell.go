package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/richard-senior/matchday/pkg/util"
)

// Kind tags the value held by a Cell
type Kind uint8

const (
	// Unset marks a cell nothing has written yet. It is never a legitimate output.
	Unset Kind = iota
	Number
	Text
	Bool
)

const (
	Unknown     = "UNKNOWN"
	MissingNum  = -1.0
	trueString  = "True"
	falseString = "False"
)

func (k Kind) String() string {
	switch k {
	case Unset:
		return "unset"
	case Number:
		return "number"
	case Text:
		return "text"
	case Bool:
		return "bool"
	default:
		return "invalid"
	}
}

// Cell is a single tagged table value
type Cell struct {
	kind Kind
	num  float64
	str  string
	flag bool
}

func Num(v float64) Cell {
	return Cell{kind: Number, num: v}
}

func Int(v int) Cell {
	return Cell{kind: Number, num: float64(v)}
}

func Str(s string) Cell {
	return Cell{kind: Text, str: s}
}

func Flag(b bool) Cell {
	return Cell{kind: Bool, flag: b}
}

// Missing is the numeric fill sentinel -1
func Missing() Cell {
	return Num(MissingNum)
}

// UnknownText is the string fill sentinel
func UnknownText() Cell {
	return Str(Unknown)
}

func (c Cell) Kind() Kind {
	return c.kind
}

func (c Cell) IsSet() bool {
	return c.kind != Unset
}

// IsMissing reports the fill sentinels -1 and UNKNOWN
func (c Cell) IsMissing() bool {
	switch c.kind {
	case Number:
		return c.num == MissingNum
	case Text:
		return c.str == Unknown || c.str == ""
	default:
		return false
	}
}

// Float coerces the cell to a number. Numeric text is accepted.
func (c Cell) Float() (float64, error) {
	switch c.kind {
	case Number:
		return c.num, nil
	case Text:
		f, err := util.GetAsFloat(c.str)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not numeric", ErrType, c.str)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s cell is not numeric", ErrType, c.kind)
	}
}

// Int coerces the cell to a whole number
func (c Cell) Int() (int, error) {
	f, err := c.Float()
	if err != nil {
		return 0, err
	}
	i, err := util.GetAsInteger(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrType, err)
	}
	return i, nil
}

func (c Cell) Bool() (bool, error) {
	switch c.kind {
	case Bool:
		return c.flag, nil
	case Text:
		b, err := strconv.ParseBool(c.str)
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrType, c.str)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s cell is not a boolean", ErrType, c.kind)
	}
}

// String renders the cell the way it is written to CSV
func (c Cell) String() string {
	switch c.kind {
	case Number:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case Text:
		return c.str
	case Bool:
		if c.flag {
			return trueString
		}
		return falseString
	default:
		return ""
	}
}

// Equal compares kind and value
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case Number:
		return c.num == o.num
	case Text:
		return c.str == o.str
	case Bool:
		return c.flag == o.flag
	default:
		return true
	}
}

// Parse infers a cell from its textual form
func Parse(s string) Cell {
	switch s {
	case trueString, "true":
		return Flag(true)
	case falseString, "false":
		return Flag(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) {
			return Missing()
		}
		return Num(f)
	}
	return Str(s)
}
