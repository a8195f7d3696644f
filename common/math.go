package common

import "math"

// Round rounds half away from zero.
func Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

// DecimalToFixed rounds num to precision decimal places.
// NaN and infinities are returned unchanged.
func DecimalToFixed(num float64, precision int) float64 {
	if !IsFinite(num) {
		return num
	}
	output := math.Pow(10, float64(precision))
	return math.Round(num*output) / output
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite returns the finite values of data, in order.
func Finite(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if IsFinite(v) {
			out = append(out, v)
		}
	}
	return out
}
