// Package expr parses textual single-variable expressions into evaluable
// functions.
//
// Text is normalized once at parse time (whitespace stripped, caret rewritten
// to govaluate's power operator, named constants substituted) and compiled
// with govaluate plus a map of the supported unary functions. Evaluation
// never returns an error: a point where the function is undefined (division
// by zero, domain violation, non-finite result) reports ok == false, and
// callers treat it as a domain gap.
package expr
