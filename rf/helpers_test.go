package rf

import "math"

func approxEqual(got, want, relTol float64) bool {
	if got == want {
		return true
	}
	return math.Abs(got-want) <= relTol*math.Max(math.Abs(got), math.Abs(want))
}

func ptr[T any](v T) *T { return &v }
