package enums

import "fmt"

// AdjustmentDirection tells whether a catalog adjustment raises or lowers the price.
type AdjustmentDirection string

const (
	AdjustmentDirectionIncrease AdjustmentDirection = "increase"
	AdjustmentDirectionDecrease AdjustmentDirection = "decrease"
)

var validAdjustmentDirections = []AdjustmentDirection{
	AdjustmentDirectionIncrease,
	AdjustmentDirectionDecrease,
}

// String implements fmt.Stringer.
func (a AdjustmentDirection) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentDirection.
func (a AdjustmentDirection) IsValid() bool {
	for _, candidate := range validAdjustmentDirections {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentDirection converts the raw string to AdjustmentDirection.
func ParseAdjustmentDirection(value string) (AdjustmentDirection, error) {
	for _, candidate := range validAdjustmentDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment direction %q", value)
}
