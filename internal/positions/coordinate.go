package positions

import (
	"errors"

	"github.com/shopspring/decimal"
)

const MaxCoordinateDecimalPlaces = 4

var (
	ErrCoordinateOutOfRange = errors.New("coordinate must be in range [-90.0, 90.0]")
	ErrCoordinatePrecision  = errors.New("coordinate must have at most 4 decimal places")

	minCoordinate = decimal.NewFromInt(-90)
	maxCoordinate = decimal.NewFromInt(90)
)

// ValidateCoordinate checks a latitude or longitude value. Precision is
// checked on the value as it was written, so 45.10000 fails even though it
// equals 45.1.
func ValidateCoordinate(d decimal.Decimal) (decimal.Decimal, error) {
	if d.LessThan(minCoordinate) || d.GreaterThan(maxCoordinate) {
		return d, ErrCoordinateOutOfRange
	}
	if d.Exponent() < -MaxCoordinateDecimalPlaces {
		return d, ErrCoordinatePrecision
	}
	return d, nil
}

// Coordinate is written to JSON as a number with exactly 4 fractional
// digits, and read from either a JSON number or a string.
type Coordinate struct {
	decimal.Decimal
}

func NewCoordinate(value string) (Coordinate, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Coordinate{}, err
	}
	return Coordinate{Decimal: d}, nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return []byte(c.StringFixed(MaxCoordinateDecimalPlaces)), nil
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	return c.Decimal.UnmarshalJSON(data)
}
