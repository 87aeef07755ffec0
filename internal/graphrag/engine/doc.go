// Package engine runs a question through recognition, reference resolution,
// classification, planning, parallel execution, fact assembly and verified
// answer generation, and records the turn in the caller's session.
package engine
