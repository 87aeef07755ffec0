// Package conversation holds per-session state and resolves anaphora.
//
// A Session is owned by one caller and passed explicitly to the engine. Turns
// are appended after each answered question and never removed except by
// Reset. The Resolver substitutes the previous turn's entities when a question
// refers back to them ("their members", "that gang") without naming anything
// new of the referenced type.
package conversation
