// Package entity recognizes people, organizations and locations in question text.
//
// Organizations, locations and known person aliases are matched against a
// NameIndex built from the store, longest span first. Person names are found
// with a capitalized-token heuristic and then bound to an identifier when the
// index knows them. The index is rebuilt by a Refresher; a stale or empty
// index only means fewer matches.
package entity
