// Package facts assembles executed operations into a FactBundle: the only
// factual source an answer may draw on.
//
// A bundle keeps one result set per successful operation, including empty
// ones, with identical records removed, plus the ordered log of every
// operation attempted and the statements it ran. Bundles serialize to a JSON
// transparency format that re-parses without loss; integers stay integers and
// floats stay floats.
package facts
