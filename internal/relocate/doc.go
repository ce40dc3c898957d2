// Package relocate moves a paired video and caption track from the intake
// directory into the indexed layout under their assigned catalog index.
//
// The two renames are not atomic together. A video that moved successfully is
// moved back when the caption move fails, so callers only ever observe both
// files relocated or neither.
package relocate
