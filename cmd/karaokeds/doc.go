// Package main hosts the karaokeds CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging, and the journal into
// the pipeline stages: ingest pairs raw media into the catalog, parse turns
// indexed caption tracks into cue tables, and refine cleans those tables.
// Catalog and history commands are read-only views for remediation.
package main
