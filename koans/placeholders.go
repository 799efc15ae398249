package koans

// __ marks the answer of a koan. It returns its argument unchanged; the
// workspace generator replaces every marker with a FillMeIn placeholder of the
// same type. Use the explicit form __[T](v) where T cannot be read off v.
func __[T any](answer T) T {
	return answer
}

// FillMeIn stands in for a value the learner has not supplied yet. It returns
// the zero value of T. A koan still calling FillMeIn is never counted as
// passed, even when the zero value happens to be right.
func FillMeIn[T any]() T {
	var zero T
	return zero
}
