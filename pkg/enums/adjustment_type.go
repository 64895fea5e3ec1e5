package enums

import "fmt"

// AdjustmentType describes how a catalog reshapes a resolved base price.
type AdjustmentType string

const (
	AdjustmentTypeNone       AdjustmentType = "none"
	AdjustmentTypePercentage AdjustmentType = "percentage"
	AdjustmentTypeFixed      AdjustmentType = "fixed"
)

var validAdjustmentTypes = []AdjustmentType{
	AdjustmentTypeNone,
	AdjustmentTypePercentage,
	AdjustmentTypeFixed,
}

// String implements fmt.Stringer.
func (a AdjustmentType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentType.
func (a AdjustmentType) IsValid() bool {
	for _, candidate := range validAdjustmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentType converts the raw string to AdjustmentType.
func ParseAdjustmentType(value string) (AdjustmentType, error) {
	for _, candidate := range validAdjustmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment type %q", value)
}
