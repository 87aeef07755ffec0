// Package analytics implements the graph algorithms behind ranking and
// hotspot questions: influence ranking, bridge detection, hidden-community
// pairing, degree ranking, density-based hotspot clustering and location risk
// scoring.
//
// Each computation reads a snapshot of the graph through read-only queries
// and post-processes it in memory. Results are ordinary flat records and are
// assembled into the fact bundle exactly like direct query results. Every
// ordering is total, so re-running on an unchanged graph yields identical
// output.
package analytics
