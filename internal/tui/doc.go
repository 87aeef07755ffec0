// Package tui is the full-screen chat interface: a scrollable transcript of
// answers above a single-line question prompt with history navigation.
package tui
