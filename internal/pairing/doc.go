// Package pairing matches caption files in the raw intake directory to their
// video siblings.
//
// Caption files follow the grammar
//
//	<title><ws>[<source_id>].<language>.<caption_ext>
//
// and their videos are named <title> [<source_id>].<video_ext>. The grammar is
// implemented as explicit field extraction rather than a regular expression so
// that each rejection case (no bracket, empty field, missing separator) is
// enumerable and testable. Where a name admits several splits, the title and
// then the source id take the longest candidate, matching greedy pattern
// semantics.
package pairing
