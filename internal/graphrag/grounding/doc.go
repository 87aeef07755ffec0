// Package grounding checks generated answers against the fact bundle they
// were written from.
//
// Every proper-noun phrase in an answer must occur in the bundle, in the
// question, or as a known alias of a name in the bundle; every standalone
// number must equal a value or a derived count in the bundle. An answer that
// fails is regenerated once under a stricter instruction and then replaced by
// a direct rendering of the bundle.
package grounding
