// Package schema defines the closed vocabulary of the investigation graph.
//
// Node types and relation labels are fixed. Each relation label carries the
// endpoint types it is expected to connect; the store does not enforce this,
// so the constraint is checked when query operations are built.
package schema
