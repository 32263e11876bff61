// Package graph manages the collection of plotted functions.
//
// The manager owns every live function: standard functions created from user
// text, plus derivative and integral curves derived from them. Derived
// functions carry a parent ID (an identity reference, not a pointer), at
// most one live derived function exists per (kind, parent), and removing a
// function cascades to everything derived from it.
package graph
