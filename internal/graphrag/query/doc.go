// Package query holds the typed retrieval operations produced by the planner.
//
// An Operation is a value: a kind plus typed parameters. Nothing in this
// package talks to the store. Render turns an Operation into a parameterized
// Cypher Statement, and is only called at the executor boundary, so planning
// can be tested without a database. User-supplied text only ever reaches the
// store as a bound parameter.
package query
