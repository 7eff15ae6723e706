// Package bench aggregates field match statistics across a whole dataset.
//
// Every row is parsed and scored at the configured threshold; each benchmark
// field tallies match, hallucination, and null counts plus percentages of the
// row count. Rows that cannot be parsed are counted as skipped and score null
// for every field, which keeps each field's buckets summing to the row count.
// A pass is captured as a Run with a unique id so it can be persisted and
// compared later.
package bench
