// Package ingest drives one allocation batch: every caption file in the intake
// directory is paired with its video, assigned the next catalog index, and
// relocated into the indexed layout.
//
// The next index is always re-derived from the catalog at the start of a run.
// Within a run it advances only when both the append and the relocation
// succeed. A relocation failure therefore leaves a durable row whose index is
// handed out again to the next pair; `karaokeds catalog check` reports those
// duplicates.
package ingest
