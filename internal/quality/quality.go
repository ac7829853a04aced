package quality

import "math"

// MinStraightlineAnswers is the smallest likert answer count where an
// identical value across the board is treated as straight-lining rather
// than coincidence.
const MinStraightlineAnswers = 3

// Straightlined reports whether a run of likert answers shows no variation
// at all. Short runs are never flagged.
func Straightlined(values []int) bool {
	if len(values) < MinStraightlineAnswers {
		return false
	}
	first := values[0]
	for _, v := range values[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// Mean returns the arithmetic mean of the values, 0 for an empty slice.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// StdDev returns the population standard deviation of the values.
func StdDev(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSquares float64
	for _, v := range values {
		d := float64(v) - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}
