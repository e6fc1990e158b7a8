package reembed

import "math"

// NormalizeVector returns a unit-length copy of v. The input is never
// mutated. A zero or empty vector has no direction and normalizes to a
// zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))

	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return out
	}

	inv := 1 / math.Sqrt(sumSq)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}
