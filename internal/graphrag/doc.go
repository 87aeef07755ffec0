// Package graphrag holds the configuration, errors and telemetry names shared
// by the retrieval engine and its stages.
//
// A question flows through the stages in the subpackages:
//
//	entity        recognize organizations, locations and persons by name
//	conversation  resolve pronouns and elliptical follow-ups from session context
//	intent        classify the question
//	planner       synthesize a bounded list of query operations
//	executor      run the operations against the graph store in parallel
//	analytics     compute influence, bridges, hotspots and location risk
//	facts         assemble results into a deduplicated fact bundle
//	generator     write an answer from the bundle with a language model
//	grounding     reject answers that state facts absent from the bundle
//	engine        wire the stages into one turn
//
// The graph store is Neo4j, reached through the graph subpackage. Every stage
// records spans named by the Span* constants and attributes named by the
// Attr* constants.
package graphrag
