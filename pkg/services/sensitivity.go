package services

import "math"

// PriceSensitivity returns the urgency coefficient for a given number of days
// until expiry. The piecewise steps reflect how sharply a shrinking expiry
// window amplifies the demand effect of a discount; it is non-increasing as
// days_left grows.
func PriceSensitivity(daysLeft int) float64 {
	switch {
	case daysLeft <= 1:
		return 7.0
	case daysLeft == 2:
		return 5.0
	case daysLeft == 3:
		return 4.0
	case daysLeft == 4:
		return 2.0
	default:
		return math.Max(1.0, 2.0-float64(daysLeft)*0.1)
	}
}

// InventoryPressure maps stock on hand to a pressure coefficient around a
// 70-unit reference level. Stock above the reference pushes the coefficient
// down toward 0.5, stock below pushes it up toward 1.5.
func InventoryPressure(stock float64) float64 {
	return clamp(1.0+(70.0-stock)*0.005, 0.5, 1.5)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
