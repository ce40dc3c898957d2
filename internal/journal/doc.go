// Package journal records the outcome of every ingestion attempt in a SQLite
// database so skipped and failed files can be reviewed after a batch.
//
// The catalog stays the source of truth for index allocation. The journal is
// an audit trail only and is never consulted when deriving the next index.
package journal
