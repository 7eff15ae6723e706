// Package viewer holds the review session state and assembles per-row views.
//
// A Session is the only mutable state in a review: the current row, the
// display mode, and the similarity threshold, all mutex-guarded. Cursor moves
// clamp into the dataset's row range. Build turns one dataset row into a
// View: the parsed record, its nine scored fields, and the image locator
// resolved from the record JSON first and the dataset column second.
package viewer
