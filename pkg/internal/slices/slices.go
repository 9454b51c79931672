package slices

// Convert accepts a list of T and returns a list of R based on the input func.
// Zero values of R are dropped from the result.
func Convert[T any, R comparable](slice []T, f func(in T) R) []R {
	var nilR R
	ret := make([]R, 0, len(slice))
	for _, t := range slice {
		r := f(t)
		if r != nilR {
			ret = append(ret, r)
		}
	}
	return ret
}

// ConvertAll is a variant of Convert that maps every element, keeping zero values.
func ConvertAll[T, R any](slice []T, f func(in T) R) []R {
	ret := make([]R, 0, len(slice))
	for _, t := range slice {
		ret = append(ret, f(t))
	}
	return ret
}
