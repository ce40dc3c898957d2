// Package refine cleans parsed cue tables for downstream dataset building:
// duplicate rows are dropped, timecodes become seconds, text is lowercased,
// and an `unformatted` column without row separators is added.
package refine
