// Package fileutil provides the filesystem primitives the pipeline builds on:
// renames that surface cross-device failures explicitly, verified copies, and
// atomic whole-file writes.
package fileutil
