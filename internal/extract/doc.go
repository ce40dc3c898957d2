// Package extract parses every indexed caption track into a cue table under
// the parsed directory. Tracks are independent: a malformed track is reported
// and produces no table, and the batch moves on.
package extract
