// Package catalog persists the append-only index of ingested media pairs.
//
// The catalog is a tab-separated text table whose first line is a fixed
// header. It is the single source of truth for the next available index: no
// counter survives a process restart, and every cold start re-derives the next
// index from the last data row on disk. Rows are appended once and never
// rewritten.
//
// Verify inspects a catalog for the inconsistencies the append-then-relocate
// ordering can leave behind (duplicate indices, repeated pairs, rows whose
// indexed files never arrived) without modifying anything.
package catalog
