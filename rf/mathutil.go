package rf

import "math"

// qdrt returns the fourth root of x. Only defined for x >= 0.
func qdrt(x float64) float64 {
	return math.Sqrt(math.Sqrt(x))
}
