// Package intent classifies a question into exactly one Intent variant.
//
// Classification is a fixed-priority cascade of cue tests. More specific
// intents (paths, bounded traversals, cross-organization co-occurrence and the
// analytics rankings) are tested before generic relation and attribute
// lookups so a generic fallback never masks them.
package intent
