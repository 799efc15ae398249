// Package koans is a path to enlightenment in Go, walked one failing test at a
// time.
//
// Each about_*_test.go file holds the koans of one topic. A koan states a fact
// about the language as an assertion; in a learner's workspace the expected
// value of that assertion is blanked out with FillMeIn, and the learner
// supplies it until the koan passes. Run them in order with
//
//	gokoans meditate
//
// or directly with go test.
package koans
