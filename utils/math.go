package utils

import "math"

// Clamp returns value limited to the range [low, high].
func Clamp(value, low, high float64) float64 {
	return math.Min(math.Max(value, low), high)
}

// ApplyDeadband returns zero when value is within the deadband around zero. Values outside it are
// rescaled so the output still spans the full range from the deadband edge to ±1.
func ApplyDeadband(value, deadband float64) float64 {
	if math.Abs(value) <= deadband {
		return 0
	}
	if value > 0 {
		return (value - deadband) / (1 - deadband)
	}
	return (value + deadband) / (1 - deadband)
}

// SquareMagnitude squares value while keeping its sign.
func SquareMagnitude(value float64) float64 {
	return math.Copysign(value*value, value)
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less
// than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// ScaleByPct scales a max number by a floating point percentage between two bounds [0, n] where
// n is a positive integer.
func ScaleByPct(n int, pct float64) int {
	scaled := int(float64(n) * pct)
	if scaled < 0 {
		return 0
	}
	if scaled > n {
		return n
	}
	return scaled
}
