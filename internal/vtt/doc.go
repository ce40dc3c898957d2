// Package vtt turns a WebVTT-style caption track into cue records.
//
// Parsing runs in two passes over the same lines. The first pass collects
// every `cue(c.<payload>)` style reference into a Dictionary that numbers
// payloads from 1 in first-seen order. The second pass is a small state
// machine: lines before the metadata marker are ignored, and afterwards each
// blank line closes the cue accumulated since the previous boundary. Cue text
// is normalized on emission, which strips presentation characters and rewrites
// inline `<c.payload>` tags to `<code>` using the dictionary.
package vtt
