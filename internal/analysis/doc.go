// Package analysis provides approximate calculus over expr.Function values:
// central-difference derivatives, trapezoidal antiderivatives anchored at
// zero, and root/inflection detection by sign-change scanning with bisection
// refinement.
//
// Every result is a numerical approximation. Derived functions are composed
// closures that recursively evaluate their inner function, so a derivative
// costs two inner evaluations per point and a second derivative four.
package analysis
